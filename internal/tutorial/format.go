package tutorial

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/antonio-alexander/go-blog-sqlx/internal/data"
	"github.com/antonio-alexander/go-blog-sqlx/internal/sql"

	"github.com/shopspring/decimal"
)

const dateFormat = time.DateTime

// formatCurrency renders d as US currency, e.g. $1,234.50 or -$3.00
func formatCurrency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign, d = "-", d.Neg()
	}
	s := d.StringFixed(2)
	whole, fraction := s[:len(s)-3], s[len(s)-3:]
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + fraction
}

func formatOptional[T any](v *T) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(*v)
}

func formatValueCurrency(v sql.Value) string {
	if d, ok := v.Decimal(); ok {
		return formatCurrency(d)
	}
	return v.String()
}

func printEmployee(w io.Writer, e *data.Employee) {
	fmt.Fprintf(w, "\nEmployeeName: %s\nAge: %s\nSalary: %s\nEmail: %s\nPhoneNumber: %s\nHireDate: %s\n",
		e.Name, formatOptional(e.Age), formatCurrency(e.Salary), formatOptional(e.Email),
		formatOptional(e.PhoneNumber), e.HireDate.Format(dateFormat))
}

func printEmployeeRow(w io.Writer, row *sql.Row) {
	fmt.Fprintf(w, "\nEmployeeName: %s\nAge: %s\nSalary: %s\nEmail: %s\nPhoneNumber: %s\nHireDate: %s\n",
		row.Get("Name"), row.Get("Age"), formatValueCurrency(row.Get("Salary")),
		row.Get("Email"), row.Get("PhoneNumber"), row.Get("HireDate"))
}

func printDepartment(w io.Writer, d *data.Department) {
	fmt.Fprintf(w, "\nName: %s\nCode: %s\nDateOfCreation: %s\n",
		d.DepartmentName, d.Code, d.DateOfCreation.Format(dateFormat))
}
