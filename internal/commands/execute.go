package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Toggle func(IDArgs) (Result, error)
	Delete func(IDArgs) (Result, error)
	Filter func(FilterArgs) (Result, error)
	Sort   func(SortArgs) (Result, error)
	Search func(SearchArgs) (Result, error)
	Clear  func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missingHandler(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeToggle:
		if handlers.Toggle == nil {
			return Result{}, missingHandler(cmd.Type)
		}
		return handlers.Toggle(*cmd.Target)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, missingHandler(cmd.Type)
		}
		return handlers.Delete(*cmd.Target)
	case TypeFilter:
		if handlers.Filter == nil {
			return Result{}, missingHandler(cmd.Type)
		}
		return handlers.Filter(*cmd.Filter)
	case TypeSort:
		if handlers.Sort == nil {
			return Result{}, missingHandler(cmd.Type)
		}
		return handlers.Sort(*cmd.Sort)
	case TypeSearch:
		if handlers.Search == nil {
			return Result{}, missingHandler(cmd.Type)
		}
		return handlers.Search(*cmd.Search)
	case TypeClear:
		if handlers.Clear == nil {
			return Result{}, missingHandler(cmd.Type)
		}
		return handlers.Clear()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missingHandler(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
