package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/username/calgrid/internal/calendar"
	"github.com/username/calgrid/pkg/dateutil"
)

// Action is what an input line asks the session to do
type Action int

const (
	ActionRedraw Action = iota
	ActionNext
	ActionPrev
	ActionMonth
	ActionWeek
	ActionToday
	ActionSelect
	ActionJump
	ActionClear
	ActionWeekStart
	ActionRefresh
	ActionHelp
	ActionQuit
)

// Command is a parsed input line
type Command struct {
	Action    Action
	Date      time.Time          // ActionSelect, ActionJump
	WeekStart calendar.WeekStart // ActionWeekStart
}

// Help lists the accepted commands
const Help = `commands:
  n            next month / week
  p            previous month / week
  m            month mode
  w            week mode
  t            go to today
  s DATE       select DATE
  g DATE       jump to DATE and select it
  c            clear selection
  ws VALUE     week start: system, sunday or monday
  r            refresh holidays
  h            help
  q            quit`

// ParseCommand parses one input line. Dates are read in loc.
func ParseCommand(line string, loc *time.Location) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Action: ActionRedraw}, nil
	}

	name, args := strings.ToLower(fields[0]), fields[1:]

	simple := map[string]Action{
		"n": ActionNext, "next": ActionNext,
		"p": ActionPrev, "prev": ActionPrev,
		"m": ActionMonth, "month": ActionMonth,
		"w": ActionWeek, "week": ActionWeek,
		"t": ActionToday, "today": ActionToday,
		"c": ActionClear, "clear": ActionClear,
		"r": ActionRefresh, "refresh": ActionRefresh,
		"h": ActionHelp, "help": ActionHelp, "?": ActionHelp,
		"q": ActionQuit, "quit": ActionQuit, "exit": ActionQuit,
	}
	if action, ok := simple[name]; ok {
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%s takes no arguments", name)
		}
		return Command{Action: action}, nil
	}

	switch name {
	case "s", "select", "g", "goto":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%s requires a date", name)
		}
		date, err := dateutil.ParseDate(args[0], loc)
		if err != nil {
			return Command{}, err
		}
		action := ActionSelect
		if name == "g" || name == "goto" {
			action = ActionJump
		}
		return Command{Action: action, Date: date}, nil

	case "ws":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("ws requires system, sunday or monday")
		}
		ws, err := calendar.ParseWeekStart(args[0])
		if err != nil {
			return Command{}, err
		}
		return Command{Action: ActionWeekStart, WeekStart: ws}, nil
	}

	return Command{}, fmt.Errorf("unknown command %q (h for help)", fields[0])
}
