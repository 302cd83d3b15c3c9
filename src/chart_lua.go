package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

func luaRegister(l *lua.LState, name string, f func(*lua.LState) int) {
	l.Register(name, f)
}

func nilArg(l *lua.LState, argi int) bool {
	lv := l.Get(argi)
	return lua.LVIsFalse(lv) && lv != lua.LFalse
}

func strArg(l *lua.LState, argi int) string {
	if !lua.LVCanConvToString(l.Get(argi)) {
		l.RaiseError("\nArgument %v is not a string: %v\n", argi, l.Get(argi))
	}
	return l.ToString(argi)
}

func numArg(l *lua.LState, argi int) float64 {
	num, ok := l.Get(argi).(lua.LNumber)
	if !ok {
		l.RaiseError("\nArgument %v is not a number: %v\n", argi, l.Get(argi))
	}
	return float64(num)
}

func boolArg(l *lua.LState, argi int) bool {
	return l.ToBool(argi)
}

// ParseChartLua runs a chart script. The script calls
//
//	rotation(time, value [, curve [, tension]])
//	slant(time, value [, curve [, tension]])
//	zoom(time, value [, curve [, tension]])
//	spin(start, duration, direction [, type])
//
// with times in milliseconds and angles in radians.
func ParseChartLua(name, src string) (*Chart, error) {
	l := lua.NewState()
	defer l.Close()
	c := &Chart{}
	for kind := TrackKind(0); kind < trackKindCount; kind++ {
		kind := kind
		luaRegister(l, kind.String(), func(l *lua.LState) int {
			k := Keyframe{
				Time:  SongTime(numArg(l, 1)),
				Value: float32(numArg(l, 2)),
			}
			if !nilArg(l, 3) {
				curve, err := ParseCurve(strArg(l, 3))
				if err != nil {
					l.RaiseError("%s: %v", kind, err)
				}
				k.Curve = curve
			}
			if !nilArg(l, 4) {
				k.Tension = float32(numArg(l, 4))
			}
			c.AddKeyframe(kind, k)
			return 0
		})
	}
	luaRegister(l, "spin", func(l *lua.LState) int {
		s := Spin{
			Start:     SongTime(numArg(l, 1)),
			Duration:  SongTime(numArg(l, 2)),
			Direction: boolArg(l, 3),
		}
		if !nilArg(l, 4) {
			st, err := ParseSpinType(strArg(l, 4))
			if err != nil {
				l.RaiseError("spin: %v", err)
			}
			s.Type = st
		}
		c.AddSpin(s)
		return 0
	})
	if err := l.DoString(src); err != nil {
		return nil, fmt.Errorf("chart %s: %w", name, err)
	}
	return c, nil
}
