package data

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	Id           int64           `json:"id" db:"Id"`
	Name         string          `json:"name" db:"Name"`
	Age          *int            `json:"age,omitempty" db:"Age"`
	Address      *string         `json:"address,omitempty" db:"Address"`
	Salary       decimal.Decimal `json:"salary" db:"Salary"`
	IsActive     bool            `json:"is_active" db:"IsActive"`
	Email        *string         `json:"email,omitempty" db:"Email"`
	PhoneNumber  *string         `json:"phone_number,omitempty" db:"PhoneNumber"`
	ImageName    *string         `json:"image_name,omitempty" db:"ImageName"`
	HireDate     time.Time       `json:"hire_date" db:"HireDate"`
	CreatedAt    time.Time       `json:"created_at" db:"CreatedAt"`
	DepartmentId *int64          `json:"department_id,omitempty" db:"DepartmentId"`

	//only populated when a query explicitly joins and assigns it
	Department *Department `json:"department,omitempty" db:"-"`
}

func NewEmployee() *Employee {
	return &Employee{CreatedAt: time.Now()}
}
