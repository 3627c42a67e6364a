package builtins

import (
	"fmt"
	"strings"
	"time"

	"github.com/cwbudde/go-rexx/internal/interp/runtime"
	"github.com/cwbudde/go-rexx/pkg/ident"
)

// now is swappable so tests can pin the clock.
var now = time.Now

func registerDateTime(m *ident.Map[Function]) {
	m.Set("DATE", fnDate)
	m.Set("TIME", fnTime)
}

// DATE([option]) formats the current date. The default form is the REXX
// "dd Mon yyyy"; S gives sorted yyyymmdd, I gives ISO yyyy-mm-dd.
func fnDate(_ Context, args []runtime.Value) (runtime.Value, error) {
	t := now()
	switch strings.ToUpper(optString(args, 0, "")) {
	case "", "N", "NORMAL":
		return runtime.NewString(t.Format("2 Jan 2006")), nil
	case "S", "SORTED":
		return runtime.NewString(t.Format("20060102")), nil
	case "I", "ISO":
		return runtime.NewString(t.Format("2006-01-02")), nil
	case "W", "WEEKDAY":
		return runtime.NewString(t.Format("Monday")), nil
	}
	return nil, fmt.Errorf("unknown DATE option %q", args[0].String())
}

// TIME([option]) formats the current time. The default is hh:mm:ss; S
// gives seconds since midnight.
func fnTime(ctx Context, args []runtime.Value) (runtime.Value, error) {
	t := now()
	switch strings.ToUpper(optString(args, 0, "")) {
	case "", "N", "NORMAL":
		return runtime.NewString(t.Format("15:04:05")), nil
	case "H", "HOURS":
		return ctx.Settings().Number(float64(t.Hour())), nil
	case "S", "SECONDS":
		midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		return ctx.Settings().Number(t.Sub(midnight).Seconds()), nil
	}
	return nil, fmt.Errorf("unknown TIME option %q", args[0].String())
}
