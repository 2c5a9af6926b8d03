package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/energyd/internal/model"
)

type Type string

const (
	TypeAdd       Type = "add"
	TypeStart     Type = "start"
	TypeStop      Type = "stop"
	TypeGoto      Type = "goto"
	TypeWeighting Type = "weighting"
	TypeSync      Type = "sync"
)

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

// AddArgs logs a finished activity. From and To are "HH:MM" on the day being
// viewed; empty means "let the handler decide".
type AddArgs struct {
	Title  string
	Energy int
	Tags   string
	From   string
	To     string
	Flow   bool
	Notes  string
}

type StartArgs struct {
	Preset string
}

type StopArgs struct {
	Energy *int
}

// GotoArgs moves the viewed day. Exactly one of Today, Date or Offset applies.
type GotoArgs struct {
	Today  bool
	Date   time.Time
	Offset int
}

type WeightingArgs struct {
	Mode string
}

type Command struct {
	Type      Type
	Raw       string
	Add       *AddArgs
	Start     *StartArgs
	Stop      *StopArgs
	Goto      *GotoArgs
	Weighting *WeightingArgs
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

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeStart:
		return parseStart(input, args)
	case TypeStop:
		return parseStop(input, args)
	case TypeGoto:
		return parseGoto(input, args)
	case TypeWeighting:
		return parseWeighting(input, args)
	case TypeSync:
		return Command{Type: TypeSync, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{}
	title := make([]string, 0, len(args))
	for _, arg := range args {
		key, value, isOption := strings.Cut(arg, "=")
		if strings.EqualFold(arg, "flow") {
			out.Flow = true
			continue
		}
		if !isOption {
			title = append(title, arg)
			continue
		}
		switch strings.ToLower(key) {
		case "energy", "e":
			energy, err := parseEnergy(value)
			if err != nil {
				return Command{}, err
			}
			out.Energy = energy
		case "tags", "t":
			out.Tags = strings.Join(model.ParseTags(value), ", ")
		case "from":
			if _, _, err := model.ParseClock(value); err != nil {
				return Command{}, invalid("from must be HH:MM, got %q", value)
			}
			out.From = value
		case "to":
			if _, _, err := model.ParseClock(value); err != nil {
				return Command{}, invalid("to must be HH:MM, got %q", value)
			}
			out.To = value
		case "notes":
			out.Notes = value
		default:
			title = append(title, arg)
		}
	}
	out.Title = strings.TrimSpace(strings.Join(title, " "))
	if out.Title == "" {
		return Command{}, invalid("add requires a title")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseStart(raw string, args []string) (Command, error) {
	preset := strings.TrimSpace(strings.Join(args, " "))
	if preset == "" {
		return Command{}, invalid("start requires a preset name")
	}
	return Command{Type: TypeStart, Raw: raw, Start: &StartArgs{Preset: preset}}, nil
}

func parseStop(raw string, args []string) (Command, error) {
	out := StopArgs{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || (strings.ToLower(key) != "energy" && strings.ToLower(key) != "e") {
			return Command{}, invalid("stop only accepts energy=N, got %q", arg)
		}
		energy, err := parseEnergy(value)
		if err != nil {
			return Command{}, err
		}
		out.Energy = &energy
	}
	return Command{Type: TypeStop, Raw: raw, Stop: &out}, nil
}

func parseGoto(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("goto requires today, YYYY-MM-DD or +N/-N")
	}
	target := strings.ToLower(args[0])
	if target == "today" {
		return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{Today: true}}, nil
	}
	if strings.HasPrefix(target, "+") || strings.HasPrefix(target, "-") {
		offset, err := strconv.Atoi(target)
		if err != nil {
			return Command{}, invalid("invalid day offset %q", args[0])
		}
		return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{Offset: offset}}, nil
	}
	date, err := time.ParseInLocation(model.DateLayout, target, time.Local)
	if err != nil {
		return Command{}, invalid("invalid date %q", args[0])
	}
	return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{Date: date}}, nil
}

func parseWeighting(raw string, args []string) (Command, error) {
	if len(args) > 1 {
		return Command{}, invalid("weighting accepts at most one mode")
	}
	mode := ""
	if len(args) == 1 {
		mode = strings.ToLower(args[0])
		if mode != "duration" && mode != "average" {
			return Command{}, invalid("weighting must be duration or average, got %q", args[0])
		}
	}
	return Command{Type: TypeWeighting, Raw: raw, Weighting: &WeightingArgs{Mode: mode}}, nil
}

func parseEnergy(value string) (int, error) {
	energy, err := strconv.Atoi(value)
	if err != nil {
		return 0, invalid("energy must be an integer, got %q", value)
	}
	if err := model.ValidateEnergy(energy); err != nil {
		return 0, invalid("energy must be between %d and %d, got %d", model.MinEnergy, model.MaxEnergy, energy)
	}
	return energy, nil
}
