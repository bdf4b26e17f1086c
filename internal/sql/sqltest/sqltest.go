// Package sqltest creates throwaway sqlite databases with the tutorial
// schema for tests.
package sqltest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/antonio-alexander/go-blog-sqlx/internal/data"
	"github.com/antonio-alexander/go-blog-sqlx/internal/sql"
)

const (
	CreateDepartments = `CREATE TABLE Departments (
		Id INTEGER PRIMARY KEY,
		DepartmentName TEXT,
		Code TEXT,
		DateOfCreation DATETIME NOT NULL
	)`
	//Id isn't a key so duplicate ids can be inserted
	CreateEmployees = `CREATE TABLE Employees (
		Id INTEGER NOT NULL,
		Name TEXT NOT NULL,
		Age INTEGER,
		Address TEXT,
		Salary DECIMAL(18,2) NOT NULL,
		IsActive BOOLEAN NOT NULL,
		Email TEXT,
		PhoneNumber TEXT,
		ImageName TEXT,
		HireDate DATETIME NOT NULL,
		CreatedAt DATETIME NOT NULL,
		DepartmentId INTEGER REFERENCES Departments(Id)
	)`
	InsertEmployee = `INSERT INTO Employees (Id, Name, Age, Address, Salary, IsActive,
		Email, PhoneNumber, ImageName, HireDate, CreatedAt, DepartmentId)
		VALUES (:Id, :Name, :Age, :Address, :Salary, :IsActive,
		:Email, :PhoneNumber, :ImageName, :HireDate, :CreatedAt, :DepartmentId)`
	InsertDepartment = `INSERT INTO Departments (Id, DepartmentName, Code, DateOfCreation)
		VALUES (:Id, :DepartmentName, :Code, :DateOfCreation)`
)

// Envs returns the envs for a new sqlite database file inside a temporary
// directory owned by t
func Envs(t testing.TB) map[string]string {
	return map[string]string{
		"DATABASE_DRIVER":            sql.DriverSqlite,
		"DATABASE_CONNECTION_STRING": filepath.Join(t.TempDir(), "tutorial.db"),
	}
}

// NewFactory returns a configured connection factory for a new sqlite
// database with the Employees and Departments tables created
func NewFactory(t testing.TB, parameters ...any) sql.ConnectionFactory {
	t.Helper()

	factory := sql.NewFactory(parameters...)
	if err := factory.Configure(Envs(t)); err != nil {
		t.Fatalf("unable to configure factory: %s", err)
	}
	ctx := context.Background()
	conn, err := factory.CreateConnection(ctx)
	if err != nil {
		t.Fatalf("unable to create connection: %s", err)
	}
	defer conn.Close()
	for _, statement := range []string{CreateDepartments, CreateEmployees} {
		if _, err := sql.Execute(ctx, conn, statement, nil); err != nil {
			t.Fatalf("unable to create schema: %s", err)
		}
	}
	return factory
}

// Seed inserts the departments and employees
func Seed(ctx context.Context, factory sql.ConnectionFactory, departments []*data.Department, employees []*data.Employee) error {
	conn, err := factory.CreateConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	for _, department := range departments {
		if _, err := sql.Execute(ctx, conn, InsertDepartment, department); err != nil {
			return err
		}
	}
	for _, employee := range employees {
		if _, err := sql.Execute(ctx, conn, InsertEmployee, employee); err != nil {
			return err
		}
	}
	return nil
}
