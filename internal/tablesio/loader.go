// internal/tablesio/loader.go
package tablesio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"mutsim-core/treeseq"
)

// ReadNodes parses a node table: one row per line, fields
// `is_sample time` separated by whitespace; the line index (after
// skipping blanks and # comments) is the node id. is_sample is 0 or 1.
func ReadNodes(r io.Reader, table *treeseq.NodeTable) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields, skip := splitRow(sc.Text())
		if skip {
			continue
		}
		if len(fields) != 2 {
			return fmt.Errorf("nodes line %d: want 2 fields `is_sample time`, got %d", lineNo, len(fields))
		}
		isSample, err := strconv.ParseUint(fields[0], 10, 8)
		if err != nil || isSample > 1 {
			return fmt.Errorf("nodes line %d: is_sample must be 0 or 1, got %q", lineNo, fields[0])
		}
		t, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("nodes line %d: bad time %q: %v", lineNo, fields[1], err)
		}
		table.Add(treeseq.Node{IsSample: isSample == 1, Time: t})
	}
	return sc.Err()
}

// ReadEdges parses an edge table: fields `left right parent child` per
// line. Rows are kept in file order; the producer is responsible for
// edge sorting.
func ReadEdges(r io.Reader, table *treeseq.EdgeTable) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields, skip := splitRow(sc.Text())
		if skip {
			continue
		}
		if len(fields) != 4 {
			return fmt.Errorf("edges line %d: want 4 fields `left right parent child`, got %d", lineNo, len(fields))
		}
		left, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return fmt.Errorf("edges line %d: bad left %q: %v", lineNo, fields[0], err)
		}
		right, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("edges line %d: bad right %q: %v", lineNo, fields[1], err)
		}
		parent, err := strconv.ParseInt(fields[2], 10, 32)
		if err != nil {
			return fmt.Errorf("edges line %d: bad parent %q: %v", lineNo, fields[2], err)
		}
		child, err := strconv.ParseInt(fields[3], 10, 32)
		if err != nil {
			return fmt.Errorf("edges line %d: bad child %q: %v", lineNo, fields[3], err)
		}
		table.Add(treeseq.Edge{
			Left:   left,
			Right:  right,
			Parent: treeseq.NodeID(parent),
			Child:  treeseq.NodeID(child),
		})
	}
	return sc.Err()
}

// LoadTables reads node and edge tables from the given paths into a
// fresh table collection.
func LoadTables(nodesPath, edgesPath string) (*treeseq.Tables, error) {
	tables := &treeseq.Tables{}

	nf, err := os.Open(nodesPath)
	if err != nil {
		return nil, err
	}
	defer nf.Close()
	if err := ReadNodes(nf, &tables.Nodes); err != nil {
		return nil, fmt.Errorf("%s: %w", nodesPath, err)
	}

	ef, err := os.Open(edgesPath)
	if err != nil {
		return nil, err
	}
	defer ef.Close()
	if err := ReadEdges(ef, &tables.Edges); err != nil {
		return nil, fmt.Errorf("%s: %w", edgesPath, err)
	}
	return tables, nil
}

// splitRow returns the whitespace-separated fields of a line, or
// skip=true for blank lines and # comments.
func splitRow(line string) (fields []string, skip bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, true
	}
	return strings.Fields(line), false
}
