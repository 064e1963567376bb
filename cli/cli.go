// Package cli implements the line oriented command loop over a table.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"go-dbindex/pkg/bptree"
	"go-dbindex/pkg/table"
	"go-dbindex/util/logger"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// quitKey typed on its own line ends the session.
const quitKey = "-1"

var (
	leafColor     = color.New(color.FgGreen)
	internalColor = color.New(color.FgCyan, color.Bold)
)

type Cli struct {
	scanner *bufio.Scanner
	out     io.Writer
	table   *table.Table
	prompt  bool
	log     *logrus.Entry
}

// NewCli builds a loop reading commands from s and writing results to out.
// The prompt is printed only when prompt is true.
func NewCli(s *bufio.Scanner, out io.Writer, t *table.Table, prompt bool) *Cli {
	return &Cli{
		scanner: s,
		out:     out,
		table:   t,
		prompt:  prompt,
		log:     logger.Component("cli"),
	}
}

// Start runs the loop until exit, the quit key or end of input.
func (c *Cli) Start() error {
	if c.prompt {
		c.printHelp()
	}
	c.printPrompt()
	for c.scanner.Scan() {
		if quit := c.processInput(c.scanner.Text()); quit {
			return nil
		}
		c.printPrompt()
	}
	return c.scanner.Err()
}

func (c *Cli) printHelp() {
	fmt.Fprint(c.out, `
Table CLI

Available Commands:
  insert <key> <field>...  Insert a row
  get <key>                Print the row with key (a bare key does the same)
  range <low> <high>       Print rows with keys in [low, high]
  del <key>                Remove the row with key
  print                    Print every row
  tree                     Print the index nodes
  check                    Verify the index structure
  help                     Show this message
  exit                     Terminate this session (or enter -1)

`)
}

func (c *Cli) printPrompt() {
	if c.prompt {
		fmt.Fprint(c.out, "> ")
	}
}

func (c *Cli) processInput(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return false
	}

	if fields[0] == quitKey && len(fields) == 1 {
		return true
	}
	if _, err := parseKey(fields[0]); err == nil && len(fields) == 1 {
		c.processGetCommand(fields)
		return false
	}

	command := strings.ToLower(fields[0])
	switch command {
	default:
		fmt.Fprintf(c.out, "Unknown command \"%s\"\n", command)
	case "insert":
		c.processInsertCommand(fields[1:])
	case "get":
		c.processGetCommand(fields[1:])
	case "range":
		c.processRangeCommand(fields[1:])
	case "del":
		c.processDeleteCommand(fields[1:])
	case "print":
		c.processPrintCommand(fields[1:])
	case "tree":
		c.processTreeCommand(fields[1:])
	case "check":
		c.processCheckCommand(fields[1:])
	case "help":
		c.printHelp()
	case "exit":
		return true
	}
	return false
}

func (c *Cli) processInsertCommand(args []string) {
	n := len(c.table.FieldLengths())
	if len(args) != n+1 {
		fmt.Fprintf(c.out, "Usage: insert <key> <field> x%d\n", n)
		return
	}
	key, err := parseKey(args[0])
	if err != nil {
		c.fail(err)
		return
	}

	ok, err := c.table.Insert(key, args[1:])
	if err != nil {
		c.fail(err)
		return
	}
	if !ok {
		fmt.Fprintf(c.out, "Duplicate %d\n", key)
		return
	}
	fmt.Fprintf(c.out, "Inserted %d\n", key)
}

func (c *Cli) processGetCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: get <key>")
		return
	}
	key, err := parseKey(args[0])
	if err != nil {
		c.fail(err)
		return
	}

	fields, err := c.table.Search(key)
	if err != nil {
		c.fail(err)
		return
	}
	c.printRow(key, fields)
}

func (c *Cli) processRangeCommand(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: range <low> <high>")
		return
	}
	low, err := parseKey(args[0])
	if err != nil {
		c.fail(err)
		return
	}
	high, err := parseKey(args[1])
	if err != nil {
		c.fail(err)
		return
	}

	c.scan(low, high)
}

func (c *Cli) processDeleteCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: del <key>")
		return
	}
	key, err := parseKey(args[0])
	if err != nil {
		c.fail(err)
		return
	}

	ok, err := c.table.Remove(key)
	if err != nil {
		c.fail(err)
		return
	}
	if !ok {
		fmt.Fprintf(c.out, "Not Found %d\n", key)
		return
	}
	fmt.Fprintf(c.out, "Removed %d\n", key)
}

func (c *Cli) processPrintCommand(args []string) {
	if len(args) != 0 {
		fmt.Fprintln(c.out, "Usage: print")
		return
	}
	c.scan(math.MinInt32, math.MaxInt32)
}

func (c *Cli) processTreeCommand(args []string) {
	if len(args) != 0 {
		fmt.Fprintln(c.out, "Usage: tree")
		return
	}

	index := c.table.Index()
	fmt.Fprintln(c.out, index)
	err := index.Walk(func(info bptree.NodeInfo) error {
		indent := strings.Repeat("  ", info.Depth)
		if info.Leaf {
			_, err := leafColor.Fprintf(c.out, "%sleaf%v %v next=%v\n", indent, info.Address, info.Keys, info.Next)
			return err
		}
		_, err := internalColor.Fprintf(c.out, "%snode%v %v\n", indent, info.Address, info.Keys)
		return err
	})
	if err != nil {
		c.fail(err)
	}
}

func (c *Cli) processCheckCommand(args []string) {
	if len(args) != 0 {
		fmt.Fprintln(c.out, "Usage: check")
		return
	}

	index := c.table.Index()
	if err := index.Check(); err != nil {
		c.fail(err)
		return
	}
	height, err := index.Height()
	if err != nil {
		c.fail(err)
		return
	}
	count, err := index.Len()
	if err != nil {
		c.fail(err)
		return
	}
	fmt.Fprintf(c.out, "OK keys=%d height=%d order=%d\n", count, height, index.Order())
}

func (c *Cli) scan(low, high int32) {
	found := 0
	err := c.table.Scan(low, high, func(key int32, fields []string) (bool, error) {
		c.printRow(key, fields)
		found++
		return false, nil
	})
	if err != nil {
		c.fail(err)
		return
	}
	fmt.Fprintf(c.out, "(%d rows)\n", found)
}

func (c *Cli) printRow(key int32, fields []string) {
	if len(fields) == 0 {
		fmt.Fprintf(c.out, "Not Found %d\n", key)
		return
	}
	fmt.Fprintf(c.out, "%d %s\n", key, strings.Join(fields, " "))
}

func (c *Cli) fail(err error) {
	c.log.WithError(err).Error("command failed")
	fmt.Fprintf(c.out, "error: %v\n", err)
}

func parseKey(s string) (int32, error) {
	key, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, errors.Errorf("invalid key '%s'", s)
	}
	return int32(key), nil
}
