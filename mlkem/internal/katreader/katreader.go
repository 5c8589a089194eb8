// Package katreader parses known-answer-test files: ASCII records of the
// form "<field> = <hex>", fields ordered d, z, pk, sk, m, ct, ss, records
// separated by a blank line. It lives under internal/ because it is test
// tooling consumed only by _test.go files, not a surface the core package
// exposes to callers.
package katreader

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// Record is one KAT entry: a keygen/encapsulate/decapsulate KAT tuple.
type Record struct {
	D  []byte
	Z  []byte
	PK []byte
	SK []byte
	M  []byte
	CT []byte
	SS []byte
}

var fieldOrder = []string{"d", "z", "pk", "sk", "m", "ct", "ss"}

// Parse reads records from r until EOF. Each record is seven
// "field = hexvalue" lines, in the fixed order d, z, pk, sk, m, ct, ss,
// optionally followed by a blank line before the next record.
func Parse(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	var records []Record
	for {
		rec, ok, err := parseOne(scanner)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		records = append(records, rec)
	}
	return records, scanner.Err()
}

func parseOne(scanner *bufio.Scanner) (Record, bool, error) {
	var rec Record
	fields := map[string]*[]byte{
		"d": &rec.D, "z": &rec.Z, "pk": &rec.PK,
		"sk": &rec.SK, "m": &rec.M, "ct": &rec.CT, "ss": &rec.SS,
	}

	got := 0
	for got < len(fieldOrder) {
		if !scanner.Scan() {
			if got == 0 {
				return rec, false, nil
			}
			return rec, false, fmt.Errorf("katreader: truncated record after %d fields", got)
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, hexVal, err := splitRecordLine(line)
		if err != nil {
			return rec, false, err
		}
		want := fieldOrder[got]
		if name != want {
			return rec, false, fmt.Errorf("katreader: expected field %q, got %q", want, name)
		}
		val, err := hex.DecodeString(hexVal)
		if err != nil {
			return rec, false, fmt.Errorf("katreader: field %q: %w", name, err)
		}
		*fields[name] = val
		got++
	}
	// a blank line separating this record from the next is skipped by the
	// next call's loop, which ignores empty lines.
	return rec, true, nil
}

func splitRecordLine(line string) (name, hexVal string, err error) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return "", "", fmt.Errorf("katreader: malformed line %q", line)
	}
	name = strings.TrimSpace(line[:idx])
	hexVal = strings.TrimSpace(line[idx+1:])
	return name, hexVal, nil
}
