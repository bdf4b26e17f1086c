package tutorial

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-blog-sqlx/internal"
	"github.com/antonio-alexander/go-blog-sqlx/internal/data"
	"github.com/antonio-alexander/go-blog-sqlx/internal/sql"
	"github.com/antonio-alexander/go-blog-sqlx/internal/utilities"

	"github.com/pkg/errors"
)

const (
	OperationJoin                 = "join"
	OperationGetSingleItem        = "get_single_item"
	OperationQueryScalarValues    = "query_scalar_values"
	OperationQuerySingleRow       = "query_single_row"
	OperationQueryMultipleRows    = "query_multiple_rows"
	OperationQueryMultipleResults = "query_multiple_results"
	OperationQuerySpecificColumns = "query_specific_columns"
	OperationExecuteNonQuery      = "execute_non_query"
)

const (
	sqlEmployeeById     = "SELECT * FROM Employees WHERE Id = :employeeId"
	sqlEmployeesCount   = "SELECT COUNT(*) FROM Employees"
	sqlEmployees        = "SELECT * FROM Employees"
	sqlMultipleResults  = "SELECT * FROM Employees; SELECT * FROM Departments; SELECT * FROM Departments WHERE Id = :departmentId"
	sqlSpecificColumns  = "SELECT DepartmentName, Code, DateOfCreation FROM Departments"
	sqlInsertDepartment = `INSERT INTO Departments(Code, DepartmentName, DateOfCreation)
		VALUES (:code, :departmentName, :dateOfCreation)`
	sqlJoin = "SELECT * FROM Employees INNER JOIN Departments ON Employees.DepartmentId = Departments.Id"
)

// Operations lists every operation in the order they're presented
var Operations = []string{
	OperationJoin,
	OperationGetSingleItem,
	OperationQueryScalarValues,
	OperationQuerySingleRow,
	OperationQueryMultipleRows,
	OperationQueryMultipleResults,
	OperationQuerySpecificColumns,
	OperationExecuteNonQuery,
}

type Tutorial struct {
	sync.RWMutex
	factory sql.ConnectionFactory
	writer  io.Writer
	timers  utilities.Timers
	config  struct {
		EmployeeId       int64
		SingleEmployeeId int64
		DepartmentId     int64
		DepartmentCode   string
		DepartmentName   string
		DateOfCreation   time.Time
	}
	utilities.Logger
}

func NewTutorial(parameters ...any) *Tutorial {
	t := &Tutorial{writer: os.Stdout}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case sql.ConnectionFactory:
			t.factory = p
		case utilities.Logger:
			t.Logger = p
		case utilities.Timers:
			t.timers = p
		case io.Writer:
			t.writer = p
		}
	}
	if t.Logger == nil {
		t.Logger = utilities.NewLogger()
	}
	if t.timers == nil {
		t.timers = utilities.NewTimers()
	}
	t.config.EmployeeId = 16
	t.config.SingleEmployeeId = 17
	t.config.DepartmentId = 7
	t.config.DepartmentCode = "FIN000"
	t.config.DepartmentName = "Financce"
	t.config.DateOfCreation = time.Date(2024, 4, 4, 0, 0, 0, 0, time.UTC)
	return t
}

func (t *Tutorial) Configure(envs map[string]string) error {
	t.Lock()
	defer t.Unlock()

	if s := envs["TUTORIAL_EMPLOYEE_ID"]; s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errors.Wrap(err, "unable to parse TUTORIAL_EMPLOYEE_ID")
		}
		t.config.EmployeeId = id
	}
	if s := envs["TUTORIAL_SINGLE_EMPLOYEE_ID"]; s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errors.Wrap(err, "unable to parse TUTORIAL_SINGLE_EMPLOYEE_ID")
		}
		t.config.SingleEmployeeId = id
	}
	if s := envs["TUTORIAL_DEPARTMENT_ID"]; s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errors.Wrap(err, "unable to parse TUTORIAL_DEPARTMENT_ID")
		}
		t.config.DepartmentId = id
	}
	if s := envs["TUTORIAL_DEPARTMENT_CODE"]; s != "" {
		t.config.DepartmentCode = s
	}
	if s := envs["TUTORIAL_DEPARTMENT_NAME"]; s != "" {
		t.config.DepartmentName = s
	}
	if s := envs["TUTORIAL_DATE_OF_CREATION"]; s != "" {
		dateOfCreation, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return errors.Wrap(err, "unable to parse TUTORIAL_DATE_OF_CREATION")
		}
		t.config.DateOfCreation = dateOfCreation
	}
	return nil
}

func (t *Tutorial) operation(name string) (func(context.Context) error, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	default:
		return nil, errors.Errorf("unsupported operation: %s", name)
	case OperationJoin:
		return t.Join, nil
	case OperationGetSingleItem:
		return t.GetSingleItem, nil
	case OperationQueryScalarValues:
		return t.QueryScalarValues, nil
	case OperationQuerySingleRow:
		return t.QuerySingleRow, nil
	case OperationQueryMultipleRows:
		return t.QueryMultipleRows, nil
	case OperationQueryMultipleResults:
		return t.QueryMultipleResults, nil
	case OperationQuerySpecificColumns:
		return t.QuerySpecificColumns, nil
	case OperationExecuteNonQuery:
		return t.ExecuteNonQuery, nil
	}
}

// Run executes the named operations one after the other and stops at the
// first error
func (t *Tutorial) Run(ctx context.Context, names ...string) error {
	for _, name := range names {
		fx, err := t.operation(name)
		if err != nil {
			return err
		}
		ctx := internal.CtxWithCorrelationId(ctx, internal.GenerateId())
		index := t.timers.Start(name)
		t.Debug(ctx, "running %s", name)
		err = fx(ctx)
		elapsed := t.timers.Stop(name, index)
		if err != nil {
			t.Error(ctx, "%s failed after %v: %s", name, elapsed, err)
			return errors.Wrap(err, name)
		}
		t.Info(ctx, "%s completed in %v", name, elapsed)
	}
	return nil
}

// Timers returns the per operation totals and averages in nanoseconds
func (t *Tutorial) Timers() *data.Timers {
	return t.timers.ReadAll()
}

func (t *Tutorial) ExecuteNonQuery(ctx context.Context) error {
	t.RLock()
	defer t.RUnlock()

	conn, err := t.factory.CreateConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	rowsAffected, err := sql.Execute(ctx, conn, sqlInsertDepartment, map[string]any{
		"code":           t.config.DepartmentCode,
		"departmentName": t.config.DepartmentName,
		"dateOfCreation": t.config.DateOfCreation,
	})
	if err != nil {
		return err
	}
	if rowsAffected > 0 {
		fmt.Fprintln(t.writer, "Added Successfully")
	}
	return nil
}

func (t *Tutorial) QuerySpecificColumns(ctx context.Context) error {
	conn, err := t.factory.CreateConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	departments, err := sql.Query[data.Department](ctx, conn, sqlSpecificColumns, nil)
	if err != nil {
		return err
	}
	for _, department := range departments {
		fmt.Fprintf(t.writer, "\nDept: %s\nDateOfCreation: %s\nCode: %s\n",
			department.DepartmentName, department.DateOfCreation.Format(dateFormat),
			department.Code)
	}
	return nil
}

func (t *Tutorial) QueryMultipleResults(ctx context.Context) error {
	t.RLock()
	defer t.RUnlock()

	conn, err := t.factory.CreateConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	grid, err := sql.QueryMultiple(ctx, conn, sqlMultipleResults,
		map[string]any{"departmentId": t.config.DepartmentId})
	if err != nil {
		return err
	}
	defer grid.Close()

	employees, err := sql.ReadGrid[data.Employee](grid)
	if err != nil {
		return err
	}
	departments, err := sql.ReadGrid[data.Department](grid)
	if err != nil {
		return err
	}
	department, err := sql.ReadGridFirstOrDefault[data.Department](grid)
	if err != nil {
		return err
	}
	if department != nil {
		fmt.Fprintf(t.writer, "%d\t Code: %s\n", department.Id, department.Code)
	}
	for i := range employees {
		printEmployee(t.writer, &employees[i])
	}
	for i := range departments {
		printDepartment(t.writer, &departments[i])
	}
	return nil
}

func (t *Tutorial) QueryMultipleRows(ctx context.Context) error {
	conn, err := t.factory.CreateConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	employees, err := sql.Query[data.Employee](ctx, conn, sqlEmployees, nil)
	if err != nil {
		return err
	}
	for i := range employees {
		printEmployee(t.writer, &employees[i])
	}
	rows, err := sql.QueryDynamic(ctx, conn, sqlEmployees, nil)
	if err != nil {
		return err
	}
	for i := range rows {
		printEmployeeRow(t.writer, &rows[i])
	}
	return nil
}

func (t *Tutorial) QuerySingleRow(ctx context.Context) error {
	t.RLock()
	defer t.RUnlock()

	conn, err := t.factory.CreateConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	employee, err := sql.QuerySingleOrDefault[data.Employee](ctx, conn, sqlEmployeeById,
		map[string]any{"employeeId": t.config.SingleEmployeeId})
	if err != nil {
		return err
	}
	row, err := sql.QuerySingleOrDefaultDynamic(ctx, conn, sqlEmployeeById,
		map[string]any{"employeeId": t.config.EmployeeId})
	if err != nil {
		return err
	}
	if row != nil {
		printEmployeeRow(t.writer, row)
	}
	if employee != nil {
		printEmployee(t.writer, employee)
	}
	return nil
}

func (t *Tutorial) QueryScalarValues(ctx context.Context) error {
	conn, err := t.factory.CreateConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	countDynamic, err := sql.ExecuteScalar(ctx, conn, sqlEmployeesCount, nil)
	if err != nil {
		return err
	}
	count, err := sql.ExecuteScalarAs[int](ctx, conn, sqlEmployeesCount, nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(t.writer, countDynamic)
	fmt.Fprintln(t.writer, count)
	return nil
}

func (t *Tutorial) GetSingleItem(ctx context.Context) error {
	t.RLock()
	defer t.RUnlock()

	conn, err := t.factory.CreateConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	employee, err := sql.QueryFirstOrDefault[data.Employee](ctx, conn, sqlEmployeeById,
		map[string]any{"employeeId": t.config.EmployeeId})
	if err != nil {
		return err
	}
	row, err := sql.QueryFirstOrDefaultDynamic(ctx, conn, sqlEmployeeById,
		map[string]any{"employeeId": t.config.EmployeeId})
	if err != nil {
		return err
	}
	if employee != nil {
		printEmployee(t.writer, employee)
	}
	if row != nil {
		printEmployeeRow(t.writer, row)
	}
	return nil
}

func (t *Tutorial) Join(ctx context.Context) error {
	conn, err := t.factory.CreateConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	employees, err := sql.QueryJoin(ctx, conn, sqlJoin, nil, sql.DefaultSplitOn,
		func(employee data.Employee, department data.Department) data.Employee {
			employee.Department = &department
			return employee
		})
	if err != nil {
		return err
	}
	for _, employee := range employees {
		fmt.Fprintf(t.writer, "\nName: %s\nDepartment: %s\n",
			employee.Name, employee.Department.DepartmentName)
	}
	return nil
}
