package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-dbindex/cli"
	"go-dbindex/config"
	"go-dbindex/pkg/table"
	"go-dbindex/util/helpers"
	"go-dbindex/util/logger"

	"github.com/go-faker/faker/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

func main() {
	configs := config.New()
	if err := setupFlags(configs); err != nil {
		fatal(err)
	}
	if err := logger.SetLevel(configs.Log.Level); err != nil {
		fatal(err)
	}

	t, err := openTable(configs)
	if err != nil {
		fatal(err)
	}

	defer func() {
		if err := t.Close(); err != nil {
			logger.L.WithError(err).Error("error on gracefully stopping")
			return
		}
		logger.L.WithField("path", configs.Table.Path).Info("table closed")
	}()

	if configs.Table.SeedRecords > 0 {
		n, err := seedTable(t, configs.Table.SeedRecords)
		if err != nil {
			logger.L.WithError(err).Error("seeding failed")
			return
		}
		logger.L.WithField("rows", n).Info("table seeded")
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	c := cli.NewCli(bufio.NewScanner(os.Stdin), os.Stdout, t, interactive)

	done := make(chan error, 1)
	go func() { done <- c.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err = <-done:
		if err != nil {
			logger.L.WithError(err).Error("reading input failed")
		}
	case q := <-quit:
		logger.L.Infof("%s signal received, stopping gracefully...", q.String())
	}
}

func setupFlags(configs *config.AppConfig) error {
	fields := flag.String("fields", "10,20", "Comma separated field widths of a newly created table.")
	flag.StringVar(&configs.Table.Path, "table", configs.Table.Path, "Path of the table file. The index lives at <path>Index.")
	flag.BoolVar(&configs.Table.Create, "create", configs.Table.Create, "Create the table, replacing an existing one.")
	flag.IntVar(&configs.Index.BlockSize, "block", configs.Index.BlockSize, "Index block size of a newly created table.")
	flag.IntVar(&configs.Table.SeedRecords, "seed", configs.Table.SeedRecords, "Insert this many rows created with go-faker at startup.")
	flag.StringVar(&configs.Log.Level, "log-level", configs.Log.Level, "Log level (debug, info, warn, error).")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "\nTable CLI\n\nArguments:")
		flag.PrintDefaults()
	}
	flag.Parse()

	lengths, err := config.ParseFieldLengths(*fields)
	if err != nil {
		return errors.Wrap(err, "invalid -fields")
	}
	configs.Table.FieldLengths = lengths
	return nil
}

func openTable(configs *config.AppConfig) (*table.Table, error) {
	path := configs.Table.Path
	_, statErr := os.Stat(path)

	if !configs.Table.Create && statErr == nil {
		t, err := table.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open table '%s'", path)
		}
		logger.L.WithFields(logrus.Fields{
			"path":   path,
			"fields": t.FieldLengths(),
		}).Info("table opened")
		return t, nil
	}

	if err := helpers.CreateParentDir(path); err != nil {
		return nil, errors.Wrapf(err, "failed to create directory of '%s'", path)
	}

	t, err := table.Create(path, &table.Options{
		FieldLengths: configs.Table.FieldLengths,
		BlockSize:    configs.Index.BlockSize,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create table '%s'", path)
	}
	logger.L.WithFields(logrus.Fields{
		"path":   path,
		"fields": configs.Table.FieldLengths,
		"block":  configs.Index.BlockSize,
	}).Info("table created")
	return t, nil
}

// seedTable inserts rows with keys 0..n-1, skipping keys already present.
func seedTable(t *table.Table, n int) (int, error) {
	lengths := t.FieldLengths()
	inserted := 0
	for i := 0; i < n; i++ {
		fields := make([]string, len(lengths))
		for j, l := range lengths {
			fields[j] = truncate(faker.Word()+faker.Word(), l)
		}

		ok, err := t.Insert(int32(i), fields)
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	return string(r[:helpers.Min(len(r), n)])
}

func fatal(val interface{}) {
	fmt.Fprintln(os.Stderr, val)
	os.Exit(1)
}
