package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeStart  Type = "start"
	TypeDue    Type = "due"
	TypeRemind Type = "remind"
	TypePri    Type = "pri"
	TypeShow   Type = "show"
	TypeClear  Type = "clear"
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

type AddArgs struct {
	Title      string
	Due        string
	Time       string
	RemindMins int
	Priority   string
	Tags       []string
}

type DoneArgs struct {
	Target string
}

type StartArgs struct {
	Target string
}

type DueArgs struct {
	Target string
	Date   string
	Time   string
}

type RemindArgs struct {
	Target string
	Mins   int
}

type PriArgs struct {
	Target string
	Level  string
}

type ShowArgs struct {
	Subject string
	Tag     string
}

type ClearArgs struct {
	Scope string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Done   *DoneArgs
	Start  *StartArgs
	Due    *DueArgs
	Remind *RemindArgs
	Pri    *PriArgs
	Show   *ShowArgs
	Clear  *ClearArgs
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
	case TypeDone:
		return parseDone(input, args)
	case TypeStart:
		return parseStart(input, args)
	case TypeDue:
		return parseDue(input, args)
	case TypeRemind:
		return parseRemind(input, args)
	case TypePri:
		return parsePri(input, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeClear:
		return parseClear(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	out := &AddArgs{}
	titleParts := make([]string, 0, len(args))
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "due:"):
			out.Due = arg[len("due:"):]
		case strings.HasPrefix(lower, "at:"):
			out.Time = arg[len("at:"):]
		case strings.HasPrefix(lower, "remind:"):
			mins, err := parseMinutes(arg[len("remind:"):])
			if err != nil {
				return Command{}, err
			}
			out.RemindMins = mins
		case strings.HasPrefix(lower, "pri:"):
			out.Priority = strings.ToLower(arg[len("pri:"):])
		case strings.HasPrefix(arg, "#") && len(arg) > 1:
			out.Tags = append(out.Tags, strings.TrimPrefix(arg, "#"))
		default:
			titleParts = append(titleParts, arg)
		}
	}
	title := strings.TrimSpace(strings.Join(titleParts, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	out.Title = title
	return Command{Type: TypeAdd, Raw: raw, Add: out}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{Target: targetOrSelected(args)}}, nil
}

func parseStart(raw string, args []string) (Command, error) {
	return Command{Type: TypeStart, Raw: raw, Start: &StartArgs{Target: targetOrSelected(args)}}, nil
}

func parseDue(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "due requires target and date"}
	}
	out := &DueArgs{Target: strings.ToLower(args[0]), Date: args[1]}
	if len(args) > 2 {
		out.Time = args[2]
	}
	return Command{Type: TypeDue, Raw: raw, Due: out}, nil
}

func parseRemind(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remind requires target and minutes"}
	}
	mins, err := parseMinutes(args[1])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeRemind, Raw: raw, Remind: &RemindArgs{Target: strings.ToLower(args[0]), Mins: mins}}, nil
}

func parsePri(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "pri requires target and level"}
	}
	return Command{Type: TypePri, Raw: raw, Pri: &PriArgs{Target: strings.ToLower(args[0]), Level: strings.ToLower(args[1])}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}
	subject := strings.ToLower(args[0])
	tag := ""
	for _, arg := range args[1:] {
		if strings.HasPrefix(strings.ToLower(arg), "tag:") {
			tag = strings.TrimSpace(arg[len("tag:"):])
		}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: subject, Tag: tag}}, nil
}

func parseClear(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "clear requires a scope"}
	}
	return Command{Type: TypeClear, Raw: raw, Clear: &ClearArgs{Scope: strings.ToLower(args[0])}}, nil
}

func targetOrSelected(args []string) string {
	if len(args) == 0 {
		return "selected"
	}
	return strings.ToLower(args[0])
}

func parseMinutes(raw string) (int, error) {
	mins, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || mins < 0 {
		return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("minutes must be a non-negative number, got %q", raw)}
	}
	return mins, nil
}
