package tutorial_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/antonio-alexander/go-blog-sqlx/internal/data"
	"github.com/antonio-alexander/go-blog-sqlx/internal/sql"
	"github.com/antonio-alexander/go-blog-sqlx/internal/sql/sqltest"
	"github.com/antonio-alexander/go-blog-sqlx/internal/tutorial"
	"github.com/antonio-alexander/go-blog-sqlx/internal/utilities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func int64Ptr(i int64) *int64    { return &i }
func intPtr(i int) *int          { return &i }
func stringPtr(s string) *string { return &s }

var (
	departments = []*data.Department{
		{
			Id:             7,
			DepartmentName: "Research",
			Code:           "RES007",
			DateOfCreation: time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC),
		},
	}
	employees = []*data.Employee{
		{
			Id:           16,
			Name:         "Ada Lovelace",
			Age:          intPtr(36),
			Salary:       decimal.RequireFromString("1234.5"),
			IsActive:     true,
			Email:        stringPtr("ada@example.com"),
			PhoneNumber:  stringPtr("555-0116"),
			HireDate:     time.Date(2022, 5, 6, 0, 0, 0, 0, time.UTC),
			CreatedAt:    time.Date(2022, 5, 6, 0, 0, 0, 0, time.UTC),
			DepartmentId: int64Ptr(7),
		},
		{
			Id:        17,
			Name:      "Alan Turing",
			Age:       intPtr(41),
			Salary:    decimal.RequireFromString("987654.25"),
			HireDate:  time.Date(2023, 7, 8, 0, 0, 0, 0, time.UTC),
			CreatedAt: time.Date(2023, 7, 8, 0, 0, 0, 0, time.UTC),
		},
	}
)

type tutorialTest struct {
	factory sql.ConnectionFactory
	output  *bytes.Buffer
	*tutorial.Tutorial
}

func newTutorialTest(t *testing.T, seed bool) *tutorialTest {
	factory := sqltest.NewFactory(t)
	if seed {
		err := sqltest.Seed(context.TODO(), factory, departments, employees)
		if !assert.Nil(t, err) {
			assert.FailNow(t, "unable to seed database")
		}
	}
	output := &bytes.Buffer{}
	return &tutorialTest{
		factory:  factory,
		output:   output,
		Tutorial: tutorial.NewTutorial(factory, output, utilities.NewTimers()),
	}
}

func TestTutorial(t *testing.T) {
	ctx := context.TODO()

	t.Run("GetSingleItem", func(t *testing.T) {
		c := newTutorialTest(t, true)
		err := c.GetSingleItem(ctx)
		assert.Nil(t, err)
		output := c.output.String()
		//typed and dynamic render identically
		assert.Equal(t, 2, strings.Count(output, "EmployeeName: Ada Lovelace"))
		assert.Equal(t, 2, strings.Count(output, "Age: 36"))
		assert.Contains(t, output, "Salary: $1,234.50")
		assert.Contains(t, output, "Email: ada@example.com")
		assert.Contains(t, output, "HireDate: 2022-05-06 00:00:00")
		assert.NotContains(t, output, "Alan Turing")
	})
	t.Run("GetSingleItemMissing", func(t *testing.T) {
		c := newTutorialTest(t, false)
		err := c.GetSingleItem(ctx)
		assert.Nil(t, err)
		assert.Empty(t, c.output.String())
	})
	t.Run("QueryScalarValues", func(t *testing.T) {
		c := newTutorialTest(t, true)
		err := c.QueryScalarValues(ctx)
		assert.Nil(t, err)
		assert.Equal(t, "2\n2\n", c.output.String())
	})
	t.Run("QuerySingleRow", func(t *testing.T) {
		c := newTutorialTest(t, true)
		err := c.QuerySingleRow(ctx)
		assert.Nil(t, err)
		output := c.output.String()
		//dynamic (16) is printed before typed (17)
		ada, alan := strings.Index(output, "Ada Lovelace"), strings.Index(output, "Alan Turing")
		assert.True(t, ada >= 0 && alan > ada, output)
		assert.Contains(t, output, "Salary: $987,654.25")
		assert.Contains(t, output, "Salary: $1,234.50")
	})
	t.Run("QuerySingleRowDuplicate", func(t *testing.T) {
		c := newTutorialTest(t, true)
		err := sqltest.Seed(ctx, c.factory, nil, employees[1:])
		assert.Nil(t, err)
		err = c.QuerySingleRow(ctx)
		assert.ErrorIs(t, err, sql.ErrMultipleRows)
	})
	t.Run("QueryMultipleRows", func(t *testing.T) {
		c := newTutorialTest(t, true)
		err := c.QueryMultipleRows(ctx)
		assert.Nil(t, err)
		output := c.output.String()
		//typed and dynamic render identically
		assert.Equal(t, 2, strings.Count(output, "EmployeeName: Ada Lovelace"))
		assert.Equal(t, 2, strings.Count(output, "EmployeeName: Alan Turing"))
		assert.Equal(t, 2, strings.Count(output, "Salary: $1,234.50"))
	})
	t.Run("QueryMultipleResults", func(t *testing.T) {
		c := newTutorialTest(t, true)
		err := c.QueryMultipleResults(ctx)
		assert.Nil(t, err)
		output := c.output.String()
		assert.True(t, strings.HasPrefix(output, "7\t Code: RES007\n"), output)
		assert.Contains(t, output, "EmployeeName: Alan Turing")
		assert.Contains(t, output, "Name: Research")
	})
	t.Run("QuerySpecificColumns", func(t *testing.T) {
		c := newTutorialTest(t, true)
		err := c.QuerySpecificColumns(ctx)
		assert.Nil(t, err)
		assert.Equal(t, "\nDept: Research\nDateOfCreation: 2021-03-04 00:00:00\nCode: RES007\n",
			c.output.String())
	})
	t.Run("ExecuteNonQuery", func(t *testing.T) {
		c := newTutorialTest(t, false)
		err := c.Configure(map[string]string{
			"TUTORIAL_DEPARTMENT_CODE":  "FIN001",
			"TUTORIAL_DEPARTMENT_NAME":  "Finance",
			"TUTORIAL_DATE_OF_CREATION": "2024-04-04",
		})
		assert.Nil(t, err)
		err = c.ExecuteNonQuery(ctx)
		assert.Nil(t, err)
		assert.Equal(t, "Added Successfully\n", c.output.String())

		conn, err := c.factory.CreateConnection(ctx)
		if !assert.Nil(t, err) {
			return
		}
		defer conn.Close()
		departments, err := sql.Query[data.Department](ctx, conn, "SELECT * FROM Departments", nil)
		assert.Nil(t, err)
		if assert.Len(t, departments, 1) {
			assert.Equal(t, "FIN001", departments[0].Code)
			assert.Equal(t, "Finance", departments[0].DepartmentName)
			assert.True(t, time.Date(2024, 4, 4, 0, 0, 0, 0, time.UTC).Equal(departments[0].DateOfCreation))
		}
	})
	t.Run("Join", func(t *testing.T) {
		c := newTutorialTest(t, true)
		err := c.Join(ctx)
		assert.Nil(t, err)
		assert.Equal(t, "\nName: Ada Lovelace\nDepartment: Research\n", c.output.String())
	})
	t.Run("Run", func(t *testing.T) {
		c := newTutorialTest(t, true)
		err := c.Run(ctx, tutorial.OperationQueryScalarValues, tutorial.OperationExecuteNonQuery)
		assert.Nil(t, err)
		assert.Equal(t, "2\n2\nAdded Successfully\n", c.output.String())
		timers := c.Timers()
		assert.Contains(t, timers.Totals, tutorial.OperationQueryScalarValues)
		assert.Contains(t, timers.Totals, tutorial.OperationExecuteNonQuery)

		err = c.Run(ctx, "drop_database")
		assert.NotNil(t, err)
	})
	t.Run("RunAll", func(t *testing.T) {
		c := newTutorialTest(t, true)
		err := c.Run(ctx, tutorial.Operations...)
		assert.Nil(t, err)
	})
	t.Run("ConfigureInvalidDate", func(t *testing.T) {
		c := newTutorialTest(t, false)
		err := c.Configure(map[string]string{"TUTORIAL_DATE_OF_CREATION": "04/04/2024"})
		assert.NotNil(t, err)
	})
	t.Run("ConfigureInvalidId", func(t *testing.T) {
		c := newTutorialTest(t, false)
		for _, env := range []string{
			"TUTORIAL_EMPLOYEE_ID",
			"TUTORIAL_SINGLE_EMPLOYEE_ID",
			"TUTORIAL_DEPARTMENT_ID",
		} {
			err := c.Configure(map[string]string{env: "sixteen"})
			if assert.NotNil(t, err, env) {
				assert.Contains(t, err.Error(), env)
			}
		}
		err := c.Configure(map[string]string{"TUTORIAL_EMPLOYEE_ID": "17"})
		assert.Nil(t, err)
	})
}
