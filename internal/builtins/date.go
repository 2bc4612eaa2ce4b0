package builtins

import (
	"time"

	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/internal/sandbox"
)

// DateObject is the host-side backing of a sandbox `new Date()`.
type DateObject struct {
	t time.Time
}

// HostKind selects the "date" allow-list table.
func (d *DateObject) HostKind() string { return "date" }

// GetTime returns milliseconds since the Unix epoch.
func (d *DateObject) GetTime() float64 {
	return float64(d.t.UnixMilli())
}

// GetFullYear returns the four-digit year.
func (d *DateObject) GetFullYear() float64 { return float64(d.t.Year()) }

// GetMonth returns the zero-based month.
func (d *DateObject) GetMonth() float64 { return float64(int(d.t.Month()) - 1) }

// GetDate returns the day of the month.
func (d *DateObject) GetDate() float64 { return float64(d.t.Day()) }

// GetDay returns the day of the week (Sunday = 0).
func (d *DateObject) GetDay() float64 { return float64(int(d.t.Weekday())) }

// GetHours returns the hour.
func (d *DateObject) GetHours() float64 { return float64(d.t.Hour()) }

// GetMinutes returns the minute.
func (d *DateObject) GetMinutes() float64 { return float64(d.t.Minute()) }

// GetSeconds returns the second.
func (d *DateObject) GetSeconds() float64 { return float64(d.t.Second()) }

// GetMilliseconds returns the millisecond component.
func (d *DateObject) GetMilliseconds() float64 {
	return float64(d.t.Nanosecond() / int(time.Millisecond))
}

// ToISOString formats the instant in RFC 3339 / ISO 8601 UTC form.
func (d *DateObject) ToISOString() string {
	return d.t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// dateConstructor builds the Date global: `new Date()`, `new Date(ms)`,
// `new Date(iso)` and the static `Date.now()`.
func dateConstructor(_ *sandbox.Boundary) runtime.Value {
	return &runtime.HostFunctionValue{
		Name: "Date",
		Kind: runtime.HostConstructor,
		Construct: func(args []runtime.Value) (runtime.Value, error) {
			d := &DateObject{t: time.Now()}
			if len(args) > 0 {
				switch v := args[0].(type) {
				case *runtime.NumberValue:
					d.t = time.UnixMilli(int64(v.Value))
				case *runtime.StringValue:
					if parsed, err := time.Parse(time.RFC3339, v.Value); err == nil {
						d.t = parsed
					} else if parsed, err := time.Parse("2006-01-02", v.Value); err == nil {
						d.t = parsed
					}
				}
			}
			return runtime.NewHostValue(d, "Date"), nil
		},
		Properties: map[string]runtime.Value{
			"now": &runtime.HostFunctionValue{Name: "now", Fn: func([]runtime.Value) (runtime.Value, error) {
				return runtime.Number(float64(time.Now().UnixMilli())), nil
			}},
		},
	}
}

// regexpConstructor builds the RegExp global; compilation is delegated to
// the host regexp engine through the sandbox boundary.
func regexpConstructor(_ *sandbox.Boundary) runtime.Value {
	return &runtime.HostFunctionValue{
		Name: "RegExp",
		Kind: runtime.HostConstructor,
		Construct: func(args []runtime.Value) (runtime.Value, error) {
			pattern := ""
			flags := ""
			if len(args) > 0 && !runtime.IsNullish(args[0]) {
				if hv, ok := args[0].(*runtime.HostValue); ok {
					if re, isRe := hv.Native.(*sandbox.RegExp); isRe {
						pattern = re.Source
						flags = re.Flags
					}
				} else {
					pattern = args[0].String()
				}
			}
			if len(args) > 1 && !runtime.IsNullish(args[1]) {
				flags = args[1].String()
			}
			re, err := sandbox.CompileRegExp(pattern, flags)
			if err != nil {
				return nil, err
			}
			return runtime.NewHostValue(re, "RegExp"), nil
		},
	}
}
