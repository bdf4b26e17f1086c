package sql

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-blog-sqlx/internal"
	"github.com/antonio-alexander/go-blog-sqlx/internal/utilities"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	"github.com/pkg/errors"

	_ "github.com/denisenkom/go-mssqldb" //import for driver support
	_ "github.com/go-sql-driver/mysql"   //import for driver support
	_ "github.com/lib/pq"               //import for driver support
	_ "modernc.org/sqlite"              //import for driver support
)

const (
	DriverSqlServer = "sqlserver"
	DriverMySql     = "mysql"
	DriverPostgres  = "postgres"
	DriverSqlite    = "sqlite"
)

var (
	ErrUnsupportedDriver       = errors.New("unsupported database driver")
	ErrConnectionStringMissing = errors.New("connection string missing")
	ErrMultipleRows            = errors.New("sequence contains more than one row")
	ErrGridConsumed            = errors.New("all result sets have been consumed")
	ErrGridClosed              = errors.New("grid reader closed")
	ErrSplitOnNotFound         = errors.New("split on column not found")
)

// drivers that can return several result sets for a single parameterized
// statement batch
var batchDrivers = map[string]bool{
	DriverSqlServer: true,
	DriverMySql:     true,
}

func init() {
	sqlx.BindDriver(DriverSqlite, sqlx.QUESTION)
}

type ConnectionFactory interface {
	CreateConnection(ctx context.Context) (*Connection, error)
}

type factory struct {
	sync.RWMutex
	config struct {
		Driver           string        `json:"driver"`
		ConnectionString string        `json:"connection_string"`
		Hostname         string        `json:"hostname"`
		Port             string        `json:"port"`
		Username         string        `json:"username"`
		Password         string        `json:"password"`
		Database         string        `json:"database"`
		QueryTimeout     time.Duration `json:"query_timeout"`
	}
	mapper *reflectx.Mapper
	utilities.Logger
}

// NewFactory creates a connection factory, it doesn't pool or cache
// connections: every call to CreateConnection returns a new one
func NewFactory(parameters ...any) interface {
	internal.Configurer
	ConnectionFactory
} {
	f := &factory{
		mapper: reflectx.NewMapperTagFunc("db", strings.ToLower, strings.ToLower),
	}
	for _, parameter := range parameters {
		switch v := parameter.(type) {
		case utilities.Logger:
			f.Logger = v
		}
	}
	if f.Logger == nil {
		f.Logger = utilities.NewLogger()
	}
	return f
}

func (f *factory) Configure(envs map[string]string) error {
	f.Lock()
	defer f.Unlock()

	f.config.Driver = DriverSqlServer
	if driver := envs["DATABASE_DRIVER"]; driver != "" {
		f.config.Driver = strings.ToLower(driver)
	}
	switch f.config.Driver {
	default:
		return errors.Wrap(ErrUnsupportedDriver, f.config.Driver)
	case DriverSqlServer, DriverMySql, DriverPostgres, DriverSqlite:
	}
	if connectionString := envs["DATABASE_CONNECTION_STRING"]; connectionString != "" {
		f.config.ConnectionString = connectionString
	}
	if databaseHost := envs["DATABASE_HOST"]; databaseHost != "" {
		f.config.Hostname = databaseHost
	}
	if databasePort := envs["DATABASE_PORT"]; databasePort != "" {
		f.config.Port = databasePort
	}
	if database := envs["DATABASE_NAME"]; database != "" {
		f.config.Database = database
	}
	if username := envs["DATABASE_USER"]; username != "" {
		f.config.Username = username
	}
	if password := envs["DATABASE_PASSWORD"]; password != "" {
		f.config.Password = password
	}
	if _, ok := envs["DATABASE_QUERY_TIMEOUT"]; ok {
		i, _ := strconv.ParseInt(envs["DATABASE_QUERY_TIMEOUT"], 10, 64)
		f.config.QueryTimeout = time.Duration(i) * time.Second
	}
	return nil
}

// dataSourceName returns the configured connection string, for mysql it
// can also be assembled from the individual DATABASE_* settings
func (f *factory) dataSourceName() (string, error) {
	if f.config.ConnectionString != "" {
		return f.config.ConnectionString, nil
	}
	if f.config.Driver == DriverMySql && f.config.Hostname != "" {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&multiStatements=true&interpolateParams=true",
			f.config.Username, f.config.Password, f.config.Hostname,
			f.config.Port, f.config.Database), nil
	}
	return "", ErrConnectionStringMissing
}

func (f *factory) CreateConnection(ctx context.Context) (*Connection, error) {
	f.RLock()
	defer f.RUnlock()

	dataSourceName, err := f.dataSourceName()
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(f.config.Driver, dataSourceName)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s connection", f.config.Driver)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	conn, err := db.Connx(ctx)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "unable to connect to %s", f.config.Driver)
	}
	f.Debug(ctx, "opened %s connection", f.config.Driver)
	return &Connection{
		db:           db,
		conn:         conn,
		driver:       f.config.Driver,
		mapper:       f.mapper,
		queryTimeout: f.config.QueryTimeout,
		Logger:       f.Logger,
	}, nil
}
