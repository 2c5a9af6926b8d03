package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add       func(AddArgs) (Result, error)
	Start     func(StartArgs) (Result, error)
	Stop      func(StopArgs) (Result, error)
	Goto      func(GotoArgs) (Result, error)
	Weighting func(WeightingArgs) (Result, error)
	Sync      func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeStart:
		if handlers.Start == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Start(*cmd.Start)
	case TypeStop:
		if handlers.Stop == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Stop(*cmd.Stop)
	case TypeGoto:
		if handlers.Goto == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Goto(*cmd.Goto)
	case TypeWeighting:
		if handlers.Weighting == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Weighting(*cmd.Weighting)
	case TypeSync:
		if handlers.Sync == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Sync()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
