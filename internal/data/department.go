package data

import "time"

type Department struct {
	Id             int64     `json:"id" db:"Id"`
	DepartmentName string    `json:"department_name" db:"DepartmentName"`
	Code           string    `json:"code" db:"Code"`
	DateOfCreation time.Time `json:"date_of_creation" db:"DateOfCreation"`

	//in-memory convenience, never read from or written to the database
	Employees []*Employee `json:"employees,omitempty" db:"-"`
}
