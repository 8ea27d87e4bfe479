package transfer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/model"
)

type memSink struct {
	saved []model.Expense
	fail  map[string]bool // descriptions to reject
}

func (m *memSink) SaveExpense(_ context.Context, e model.Expense) error {
	if m.fail[e.Description] {
		return errors.New("constraint failed")
	}
	m.saved = append(m.saved, e)
	return nil
}

func TestExport(t *testing.T) {
	e := model.NewExpense(12.5, model.CategoryFood, "Lunch, with team", time.Date(2024, time.March, 5, 13, 4, 5, 0, time.Local))
	e.Merchant = "Pret, Soho"
	e.Notes = "paid by card"

	var buf bytes.Buffer
	if err := Export(&buf, []model.Expense{e}); err != nil {
		t.Fatalf("Export: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != Header {
		t.Fatalf("header = %q", lines[0])
	}
	want := "2024-03-05 13:04:05,12.5,FOOD,Pret; Soho,Lunch; with team,paid by card"
	if lines[1] != want {
		t.Fatalf("row = %q, want %q", lines[1], want)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	at := time.Date(2024, time.January, 9, 8, 30, 0, 0, time.Local)
	in := []model.Expense{
		model.NewExpense(3.2, model.CategoryTransportation, "Bus", at),
		model.NewExpense(1500, model.CategoryEducation, "Course fee", at.AddDate(0, 0, 1)),
	}
	in[0].Merchant = "TfL"

	var buf bytes.Buffer
	if err := Export(&buf, in); err != nil {
		t.Fatalf("Export: %v", err)
	}
	sink := &memSink{}
	res, err := Import(context.Background(), &buf, sink)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 2 || res.Skipped != 0 {
		t.Fatalf("result = %+v, want 2 imported", res)
	}
	for i, got := range sink.saved {
		if got.Amount != in[i].Amount || got.Category != in[i].Category ||
			got.Description != in[i].Description || got.Merchant != in[i].Merchant ||
			!got.Date.Equal(in[i].Date) {
			t.Errorf("row %d = %+v, want %+v", i, got, in[i])
		}
		if got.ID == in[i].ID {
			t.Errorf("row %d reused the exported id", i)
		}
	}
}

func TestImport_SkipsBadRows(t *testing.T) {
	input := strings.Join([]string{
		Header,
		"2024-03-01 10:00:00,10,FOOD,,Breakfast,",
		"2024-03-01 10:00:00,abc,FOOD,,Bad amount,",
		"2024-03-01,10,FOOD,,Bad date,",
		"2024-03-01 10:00:00,10,Food & Dining,,Label not enum,",
		"2024-03-01 10:00:00,10,FOOD,Short",
		"",
		"2024-03-01 10:00:00,-4,FOOD,,Negative,",
		"2024-03-01 10:00:00,2000000,FOOD,,Too large,",
		"2024-03-01 10:00:00,5,FOOD,,   ,",
		"2024-03-02 10:00:00,7,GROCERIES,Aldi,Weekly shop,extra,columns",
		"2024-03-02 10:00:00,7,GROCERIES,Aldi,Rejected,",
	}, "\n")

	sink := &memSink{fail: map[string]bool{"Rejected": true}}
	res, err := Import(context.Background(), strings.NewReader(input), sink)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 2 {
		t.Fatalf("Imported = %d, want 2", res.Imported)
	}
	if res.Skipped != 8 {
		t.Fatalf("Skipped = %d, want 8", res.Skipped)
	}
	if res.Errors[0].Line != 3 {
		t.Fatalf("first error on line %d, want 3", res.Errors[0].Line)
	}
	if sink.saved[1].Merchant != "Aldi" || sink.saved[1].Notes != "extra" {
		t.Fatalf("saved[1] = %+v", sink.saved[1])
	}
}

func TestImport_SkipsOversizedRow(t *testing.T) {
	input := strings.Join([]string{
		Header,
		"2024-03-01 10:00:00,10,FOOD,,Breakfast,",
		"2024-03-01 10:00:00,10,FOOD,," + strings.Repeat("x", 70000) + ",",
		"2024-03-02 10:00:00,4.5,TRANSPORTATION,,Bus,",
	}, "\n")

	sink := &memSink{}
	res, err := Import(context.Background(), strings.NewReader(input), sink)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 2 || res.Skipped != 1 {
		t.Fatalf("Imported = %d, Skipped = %d, want 2 and 1", res.Imported, res.Skipped)
	}
	if res.Errors[0].Line != 3 || !apperr.Is(res.Errors[0].Err, apperr.KindParse) {
		t.Fatalf("Errors[0] = %+v, want parse error on line 3", res.Errors[0])
	}
	if len(sink.saved) != 2 || sink.saved[1].Description != "Bus" {
		t.Fatalf("saved = %+v", sink.saved)
	}
}

func TestImport_BadHeader(t *testing.T) {
	sink := &memSink{}
	res, err := Import(context.Background(), strings.NewReader("date,amount\n2024-03-01 10:00:00,10,FOOD,,x,\n"), sink)
	if !apperr.Is(err, apperr.KindParse) {
		t.Fatalf("err = %v, want parse kind", err)
	}
	if res.Imported != 0 || len(sink.saved) != 0 {
		t.Fatalf("imported %d rows despite bad header", res.Imported)
	}
}

func TestImport_Empty(t *testing.T) {
	_, err := Import(context.Background(), strings.NewReader(""), &memSink{})
	if !apperr.Is(err, apperr.KindParse) {
		t.Fatalf("err = %v, want parse kind", err)
	}
}

func TestImport_ReadFailure(t *testing.T) {
	_, err := Import(context.Background(), iotest.ErrReader(errors.New("device not ready")), &memSink{})
	if !apperr.Is(err, apperr.KindFile) {
		t.Fatalf("err = %v, want file kind", err)
	}
}
