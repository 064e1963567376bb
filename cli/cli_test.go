package cli

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"go-dbindex/pkg/table"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T) *table.Table {
	tbl, err := table.Create(filepath.Join(t.TempDir(), "table.db"), &table.Options{
		FieldLengths: []int{5, 8},
		BlockSize:    36,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tbl.Close() })
	return tbl
}

func run(t *testing.T, tbl *table.Table, input string) string {
	color.NoColor = true
	out := &bytes.Buffer{}
	c := NewCli(bufio.NewScanner(strings.NewReader(input)), out, tbl, false)
	require.NoError(t, c.Start())
	return out.String()
}

func TestCli_InsertGet(t *testing.T) {
	tbl := newTable(t)

	out := run(t, tbl, strings.Join([]string{
		"insert 3 ann ann@x",
		"insert 3 bob bob@x",
		"get 3",
		"3",
		"4",
		"insert 5 toolong x",
		"insert 6 a",
		"get x",
	}, "\n"))

	require.Equal(t, strings.Join([]string{
		"Inserted 3",
		"Duplicate 3",
		"3 ann ann@x",
		"3 ann ann@x",
		"Not Found 4",
		"error: field 0: 7 characters, max 5: field is too long",
		"Usage: insert <key> <field> x2",
		"error: invalid key 'x'",
		"",
	}, "\n"), out)
}

func TestCli_RangeDeletePrint(t *testing.T) {
	tbl := newTable(t)

	var input []string
	for _, k := range []string{"9", "1", "5", "7", "3"} {
		input = append(input, "insert "+k+" v"+k+" w"+k)
	}
	input = append(input, "range 2 7", "del 5", "del 5", "print")

	out := run(t, tbl, strings.Join(input, "\n"))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, []string{
		"3 v3 w3",
		"5 v5 w5",
		"7 v7 w7",
		"(3 rows)",
		"Removed 5",
		"Not Found 5",
		"1 v1 w1",
		"3 v3 w3",
		"7 v7 w7",
		"9 v9 w9",
		"(4 rows)",
	}, lines[5:])
}

func TestCli_TreeCheck(t *testing.T) {
	tbl := newTable(t)

	var input []string
	for i := 0; i < 10; i++ {
		input = append(input, "insert "+string(rune('0'+i))+" a b")
	}
	input = append(input, "check", "tree")

	out := run(t, tbl, strings.Join(input, "\n"))
	require.Contains(t, out, "OK keys=10 height=")
	require.Contains(t, out, "order=3")
	require.Contains(t, out, "leaf@")
	require.Contains(t, out, "node@")
}

func TestCli_Quit(t *testing.T) {
	tbl := newTable(t)

	out := run(t, tbl, "insert 1 a b\n-1\nget 1\n")
	require.Equal(t, "Inserted 1\n", out)

	out = run(t, tbl, "exit\nget 1\n")
	require.Empty(t, out)

	out = run(t, tbl, "\n  \nfoo\n")
	require.Equal(t, "Unknown command \"foo\"\n", out)
}
