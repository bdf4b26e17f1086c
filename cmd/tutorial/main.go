package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/antonio-alexander/go-blog-sqlx/internal"
	"github.com/antonio-alexander/go-blog-sqlx/internal/config"
	"github.com/antonio-alexander/go-blog-sqlx/internal/data"
	"github.com/antonio-alexander/go-blog-sqlx/internal/sql"
	"github.com/antonio-alexander/go-blog-sqlx/internal/tutorial"
	"github.com/antonio-alexander/go-blog-sqlx/internal/utilities"
)

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

func main() {
	pwd, _ := os.Getwd()
	args := os.Args[1:]
	envs := internal.Environ()
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)
	if err := Main(pwd, args, envs, osSignal, os.Stdin, os.Stdout); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// operations returns the operations to run, arguments take priority over
// TUTORIAL_OPERATIONS
func operations(args []string, envs map[string]string) []string {
	if len(args) > 0 {
		return args
	}
	s := envs["TUTORIAL_OPERATIONS"]
	switch s {
	case "":
		return []string{tutorial.OperationExecuteNonQuery}
	case "all":
		return tutorial.Operations
	}
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func Main(pwd string, args []string, envs map[string]string, osSignal chan os.Signal, stdin io.Reader, stdout io.Writer) error {
	var wg sync.WaitGroup

	//create context
	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	defer func() {
		cancel()
		wg.Wait()
	}()

	//load configuration
	envs, err := config.Load(pwd, envs)
	if err != nil {
		return err
	}

	// create utilities
	logger := utilities.NewLogger()
	_ = logger.Configure(envs)
	timers := utilities.NewTimers()

	//print version info
	logger.Info(ctx, "tutorial: go-blog-sqlx v%s (%s) built from: %s",
		Version, GitCommit, GitBranch)

	//create connection factory
	factory := sql.NewFactory(logger)
	if err := factory.Configure(envs); err != nil {
		return err
	}

	//create tutorial, configure and run
	t := tutorial.NewTutorial(factory, logger, timers, stdout)
	if err := t.Configure(envs); err != nil {
		return err
	}
	if err := t.Run(ctx, operations(args, envs)...); err != nil {
		return err
	}
	for operation, total := range t.Timers().Totals {
		logger.Info(ctx, "%s: %dns", operation, total)
	}

	//wait for a key press
	if noWait, _ := strconv.ParseBool(envs["TUTORIAL_NO_WAIT"]); noWait {
		return nil
	}
	fmt.Fprintln(stdout, "\npress enter to exit")
	pressed := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(stdin).ReadString('\n')
		close(pressed)
	}()
	select {
	case <-pressed:
	case <-ctx.Done():
	}
	return nil
}
