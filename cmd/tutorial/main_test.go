package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antonio-alexander/go-blog-sqlx/internal/sql"
	"github.com/antonio-alexander/go-blog-sqlx/internal/sql/sqltest"
	"github.com/antonio-alexander/go-blog-sqlx/internal/tutorial"

	"github.com/stretchr/testify/assert"
)

func newEnvs(t *testing.T) map[string]string {
	envs := sqltest.Envs(t)
	factory := sql.NewFactory()
	if err := factory.Configure(envs); !assert.Nil(t, err) {
		assert.FailNow(t, "unable to configure factory")
	}
	conn, err := factory.CreateConnection(context.TODO())
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to create connection")
	}
	defer conn.Close()
	for _, statement := range []string{sqltest.CreateDepartments, sqltest.CreateEmployees} {
		_, err := sql.Execute(context.TODO(), conn, statement, nil)
		assert.Nil(t, err)
	}
	return envs
}

func TestOperations(t *testing.T) {
	assert.Equal(t, []string{tutorial.OperationExecuteNonQuery}, operations(nil, map[string]string{}))
	assert.Equal(t, tutorial.Operations, operations(nil, map[string]string{"TUTORIAL_OPERATIONS": "all"}))
	assert.Equal(t, []string{"join", "get_single_item"},
		operations(nil, map[string]string{"TUTORIAL_OPERATIONS": "join, get_single_item,"}))
	assert.Equal(t, []string{"join"},
		operations([]string{"join"}, map[string]string{"TUTORIAL_OPERATIONS": "all"}))
}

func TestRun(t *testing.T) {
	t.Run("NoWait", func(t *testing.T) {
		envs := newEnvs(t)
		envs["TUTORIAL_NO_WAIT"] = "true"
		stdout := &bytes.Buffer{}
		err := Main(t.TempDir(), []string{tutorial.OperationExecuteNonQuery, tutorial.OperationQueryScalarValues},
			envs, make(chan os.Signal, 1), strings.NewReader(""), stdout)
		assert.Nil(t, err)
		assert.Equal(t, "Added Successfully\n0\n0\n", stdout.String())
	})
	t.Run("WaitForEnter", func(t *testing.T) {
		envs := newEnvs(t)
		stdout := &bytes.Buffer{}
		err := Main(t.TempDir(), nil, envs, make(chan os.Signal, 1), strings.NewReader("\n"), stdout)
		assert.Nil(t, err)
		assert.Contains(t, stdout.String(), "Added Successfully")
		assert.Contains(t, stdout.String(), "press enter to exit")
	})
	t.Run("Settings", func(t *testing.T) {
		envs := newEnvs(t)
		pwd := t.TempDir()
		settings := `{"ConnectionStrings": {"DefaultConnection": "` +
			filepath.ToSlash(envs["DATABASE_CONNECTION_STRING"]) + `"}, "Database": {"Driver": "sqlite"}}`
		err := os.WriteFile(filepath.Join(pwd, "appsettings.json"), []byte(settings), 0644)
		assert.Nil(t, err)
		stdout := &bytes.Buffer{}
		err = Main(pwd, []string{tutorial.OperationQueryScalarValues},
			map[string]string{"TUTORIAL_NO_WAIT": "true"}, make(chan os.Signal, 1),
			strings.NewReader(""), stdout)
		assert.Nil(t, err)
		assert.Equal(t, "0\n0\n", stdout.String())
	})
	t.Run("UnsupportedOperation", func(t *testing.T) {
		envs := newEnvs(t)
		envs["TUTORIAL_NO_WAIT"] = "true"
		err := Main(t.TempDir(), []string{"drop_database"}, envs, make(chan os.Signal, 1),
			strings.NewReader(""), &bytes.Buffer{})
		assert.NotNil(t, err)
	})
}
