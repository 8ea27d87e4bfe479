// Package transfer moves expenses in and out of the flat CSV format used for
// backups and spreadsheet round trips.
package transfer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/model"
)

// Header is the exact first line of every export.
const Header = "Date,Amount,Category,Merchant,Description,Notes"

// DateLayout is the local-time layout of the Date column.
const DateLayout = "2006-01-02 15:04:05"

const fieldCount = 6

// MaxRowBytes caps one data row. Longer rows are skipped, not fatal.
const MaxRowBytes = 64 * 1024

// ExpenseWriter persists imported expenses.
type ExpenseWriter interface {
	SaveExpense(ctx context.Context, e model.Expense) error
}

// RowError records why one data row was skipped. Line is 1-based and
// counts the header.
type RowError struct {
	Line int
	Err  error
}

// ImportResult reports how many rows were stored and how many were skipped.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []RowError
}

// Export writes the header and one row per expense. Commas inside free-text
// fields are replaced with semicolons so rows stay splittable.
func Export(w io.Writer, expenses []model.Expense) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return apperr.File("export", err)
	}
	for _, e := range expenses {
		row := strings.Join([]string{
			e.Date.Local().Format(DateLayout),
			strconv.FormatFloat(e.Amount, 'f', -1, 64),
			string(e.Category),
			sanitize(e.Merchant),
			sanitize(e.Description),
			sanitize(e.Notes),
		}, ",")
		if _, err := fmt.Fprintln(bw, row); err != nil {
			return apperr.File("export", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return apperr.File("export", err)
	}
	return nil
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, ",", ";")
}

// Import reads an export back. The header must match exactly; each data row
// that is too long or fails to parse, validate or save is skipped. Blank
// lines are ignored.
func Import(ctx context.Context, r io.Reader, sink ExpenseWriter) (ImportResult, error) {
	var result ImportResult
	br := bufio.NewReader(r)

	first, _, err := readLine(br, MaxRowBytes)
	if err == io.EOF {
		return result, apperr.Parse("import", "empty file, expected header "+Header)
	}
	if err != nil {
		return result, apperr.File("import", err)
	}
	header := strings.TrimPrefix(strings.TrimSpace(first), "\ufeff")
	if header != Header {
		return result, apperr.Parse("import", fmt.Sprintf("unexpected header %q", header))
	}

	line := 1
	for {
		raw, tooLong, err := readLine(br, MaxRowBytes)
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, apperr.File("import", err)
		}
		line++
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if tooLong {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{
				Line: line,
				Err:  apperr.Parse("parse row", fmt.Sprintf("row longer than %d bytes", MaxRowBytes)),
			})
			continue
		}
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}

		e, err := ParseRow(text)
		if err == nil {
			err = sink.SaveExpense(ctx, e)
		}
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{Line: line, Err: err})
			continue
		}
		result.Imported++
	}

	return result, nil
}

// readLine returns the next line without its terminator. Bytes past limit
// are discarded and reported through tooLong. io.EOF means no line was left.
func readLine(br *bufio.Reader, limit int) (line string, tooLong bool, err error) {
	var buf []byte
	for {
		frag, isPrefix, err := br.ReadLine()
		if err != nil {
			return "", false, err
		}
		if !tooLong {
			if len(buf)+len(frag) > limit {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, frag...)
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}

// ParseRow turns one data row into a validated expense with a fresh id.
func ParseRow(row string) (model.Expense, error) {
	parts := strings.Split(row, ",")
	if len(parts) < fieldCount {
		return model.Expense{}, apperr.Parse("parse row", fmt.Sprintf("expected %d fields, got %d", fieldCount, len(parts)))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	date, err := time.ParseInLocation(DateLayout, parts[0], time.Local)
	if err != nil {
		return model.Expense{}, apperr.Parse("parse row", fmt.Sprintf("bad date %q", parts[0]))
	}
	amount, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return model.Expense{}, apperr.Parse("parse row", fmt.Sprintf("bad amount %q", parts[1]))
	}
	category, ok := model.LookupCategory(parts[2])
	if !ok {
		return model.Expense{}, apperr.Parse("parse row", fmt.Sprintf("unknown category %q", parts[2]))
	}

	e := model.NewExpense(amount, category, parts[4], date)
	e.Merchant = parts[3]
	e.Notes = parts[5]
	if err := e.Validate(); err != nil {
		return model.Expense{}, apperr.Validation("parse row", err)
	}
	return e, nil
}
