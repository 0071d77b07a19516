package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/pipeline"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent", TypeAdd},
		{"done 3", TypeToggle},
		{"/toggle #3", TypeToggle},
		{"rm 4", TypeDelete},
		{"/delete 4", TypeDelete},
		{"filter high", TypeFilter},
		{"sort dueLatest", TypeSort},
		{"/search milk", TypeSearch},
		{"find milk", TypeSearch},
		{"/clear", TypeClear},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
		if cmd.Raw != tc.in {
			t.Fatalf("parse %q raw = %q", tc.in, cmd.Raw)
		}
	}
}

func TestParseAddOptions(t *testing.T) {
	cmd, err := Parse("/add Buy milk p:high due:2024-01-01")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Title != "Buy milk" {
		t.Fatalf("unexpected title: %q", cmd.Add.Title)
	}
	if cmd.Add.Priority != model.PriorityHigh {
		t.Fatalf("unexpected priority: %q", cmd.Add.Priority)
	}
	if cmd.Add.DueDate == nil || cmd.Add.DueDate.Format(model.DateLayout) != "2024-01-01" {
		t.Fatalf("unexpected due date: %v", cmd.Add.DueDate)
	}

	cmd, err = Parse("add plain title")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Priority != "" || cmd.Add.DueDate != nil {
		t.Fatalf("expected no options, got %+v", cmd.Add)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	inputs := []string{
		"/add",
		"/add p:low",
		"/add x p:urgent",
		"/add x due:tomorrow",
		"/done",
		"/done abc",
		"/done 0",
		"/filter",
		"/filter urgent",
		"/sort",
		"/sort alphabetical",
	}
	for _, in := range inputs {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument error, got %v", in, err)
		}
	}
}

func TestParseFilterAndSortValues(t *testing.T) {
	cmd, err := Parse("filter all")
	if err != nil || cmd.Filter.Priority != pipeline.FilterAll {
		t.Fatalf("filter all = %+v, %v", cmd.Filter, err)
	}
	cmd, err = Parse("filter MEDIUM")
	if err != nil || cmd.Filter.Priority != "Medium" {
		t.Fatalf("filter medium = %+v, %v", cmd.Filter, err)
	}
	cmd, err = Parse("sort oldest")
	if err != nil || cmd.Sort.Key != pipeline.SortOldest {
		t.Fatalf("sort oldest = %+v, %v", cmd.Sort, err)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "/"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
			t.Fatalf("parse %q: expected empty input error, got %v", in, err)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Title != "write docs" {
				t.Fatalf("unexpected title: %q", a.Title)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteToggleDispatchesID(t *testing.T) {
	cmd, err := Parse("done 12")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var gotID int
	_, err = Execute(cmd, Handlers{
		Toggle: func(a IDArgs) (Result, error) {
			gotID = a.ID
			return Result{}, nil
		},
	})
	if err != nil || gotID != 12 {
		t.Fatalf("toggle dispatch id=%d err=%v", gotID, err)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("search milk")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
