package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/pipeline"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeToggle Type = "done"
	TypeDelete Type = "delete"
	TypeFilter Type = "filter"
	TypeSort   Type = "sort"
	TypeSearch Type = "search"
	TypeClear  Type = "clear"
)

// aliases maps alternate command words onto their canonical type.
var aliases = map[string]Type{
	"toggle": TypeToggle,
	"rm":     TypeDelete,
	"del":    TypeDelete,
	"find":   TypeSearch,
}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs carries "add <title> [p:<priority>] [due:<YYYY-MM-DD>]". Priority is
// empty when the command did not name one.
type AddArgs struct {
	Title    string
	Priority model.Priority
	DueDate  *time.Time
}

type IDArgs struct {
	ID int
}

type FilterArgs struct {
	Priority string
}

type SortArgs struct {
	Key pipeline.SortKey
}

type SearchArgs struct {
	Query string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Target *IDArgs
	Filter *FilterArgs
	Sort   *SortArgs
	Search *SearchArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]
	kind := Type(head)
	if alias, ok := aliases[head]; ok {
		kind = alias
	}

	switch kind {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeToggle, TypeDelete:
		return parseTarget(input, kind, args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypeSort:
		return parseSort(input, args)
	case TypeSearch:
		return Command{Type: TypeSearch, Raw: input, Search: &SearchArgs{Query: strings.Join(args, " ")}}, nil
	case TypeClear:
		return Command{Type: TypeClear, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "p:"):
			p, err := model.ParsePriority(arg[len("p:"):])
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
			}
			out.Priority = p
		case strings.HasPrefix(lower, "due:"):
			due, err := model.ParseDueDate(arg[len("due:"):])
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
			}
			out.DueDate = due
		default:
			words = append(words, arg)
		}
	}
	out.Title = strings.TrimSpace(strings.Join(words, " "))
	if out.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseTarget(raw string, kind Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a task id", kind)}
	}
	id, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil || id <= 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid task id: %s", args[0])}
	}
	return Command{Type: kind, Raw: raw, Target: &IDArgs{ID: id}}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "filter requires All or a priority"}
	}
	if strings.EqualFold(args[0], pipeline.FilterAll) {
		return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Priority: pipeline.FilterAll}}, nil
	}
	p, err := model.ParsePriority(args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Priority: string(p)}}, nil
}

func parseSort(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "sort requires a key"}
	}
	key, err := pipeline.ParseSortKey(args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
	}
	return Command{Type: TypeSort, Raw: raw, Sort: &SortArgs{Key: key}}, nil
}
