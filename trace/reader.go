// Package trace reads memory-access traces.
//
// A trace is a line-oriented text file with whitespace-separated fields.
// One field of each record carries a hexadecimal address; which one is
// configurable, as trace formats differ in what they place around the
// address (access type, program counter, size).
package trace

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

// DefaultAddressField is the zero-based index of the address field in the
// common "<type> <address>" trace record layout.
const DefaultAddressField = 1

// A FormatError reports a trace record that cannot be parsed.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("trace line %d: %s", e.Line, e.Reason)
}

// A Reader extracts addresses from a trace, one record at a time. Blank
// lines are skipped. A malformed record is an error unless the reader is
// lenient, in which case the record is logged and dropped.
type Reader struct {
	// AddressField is the zero-based index of the field holding the
	// hexadecimal address.
	AddressField int

	// Lenient drops malformed records instead of failing on them.
	Lenient bool

	// Logger, if set, receives a line per dropped record.
	Logger *log.Logger

	scanner *bufio.Scanner
	line    int
}

// NewReader wraps r, taking the address from the default field.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		AddressField: DefaultAddressField,
		scanner:      bufio.NewScanner(r),
	}
}

// Next returns the next address of the trace. After the last record it
// returns io.EOF.
func (r *Reader) Next() (uint64, error) {
	for r.scanner.Scan() {
		r.line++

		fields := strings.Fields(r.scanner.Text())
		if len(fields) == 0 {
			continue
		}

		addr, err := r.parseRecord(fields)
		if err == nil {
			return addr, nil
		}

		if !r.Lenient {
			return 0, err
		}

		if r.Logger != nil {
			r.Logger.Printf("dropping record: %v", err)
		}
	}

	if err := r.scanner.Err(); err != nil {
		return 0, err
	}

	return 0, io.EOF
}

// Addresses reads the remainder of the trace into a slice. Sweeps replay
// the same slice many times, so the whole trace is materialized once.
func (r *Reader) Addresses() ([]uint64, error) {
	var addrs []uint64

	for {
		addr, err := r.Next()
		if err == io.EOF {
			return addrs, nil
		}
		if err != nil {
			return nil, err
		}

		addrs = append(addrs, addr)
	}
}

// ReadFile reads a whole trace file using the default address field.
func ReadFile(path string) ([]uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()

	addrs, err := NewReader(f).Addresses()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return addrs, nil
}

func (r *Reader) parseRecord(fields []string) (uint64, error) {
	if r.AddressField >= len(fields) {
		return 0, &FormatError{
			Line: r.line,
			Reason: fmt.Sprintf("record has %d fields, address expected in field %d",
				len(fields), r.AddressField),
		}
	}

	raw := fields[r.AddressField]
	hexDigits := strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")

	addr, err := strconv.ParseUint(hexDigits, 16, 32)
	if err != nil {
		return 0, &FormatError{
			Line:   r.line,
			Reason: fmt.Sprintf("bad address %q: %v", raw, err),
		}
	}

	return addr, nil
}
