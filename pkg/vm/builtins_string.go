package vm

import (
	"strconv"
	"strings"
)

// String builtins. Positions and lengths count runes, not bytes, since
// script text is frequently non-ASCII.

func registerStringBuiltins(r *Registry) {
	r.Register(&Builtin{
		Name:     "StrLen",
		MinArity: 1,
		MaxArity: 1,
		Args:     []Kind{KindString},
		Invoke: func(inv *Invocation) Outcome {
			return Complete(IntValue(int64(len([]rune(inv.Args[0].Str())))))
		},
	})

	r.Register(&Builtin{
		Name:     "SubStr",
		MinArity: 3,
		MaxArity: 3,
		Args:     []Kind{KindString, KindInt, KindInt},
		Invoke: func(inv *Invocation) Outcome {
			runes := []rune(inv.Args[0].Str())
			start, count := inv.Args[1].Int(), inv.Args[2].Int()
			if start < 0 || start > int64(len(runes)) || count < 0 {
				return Failf(ErrIndexOutOfRange, "SubStr start %d, count %d out of range for length %d", start, count, len(runes))
			}
			end := start + count
			if end > int64(len(runes)) {
				end = int64(len(runes))
			}
			return Complete(StringValue(string(runes[start:end])))
		},
	})

	r.Register(&Builtin{
		Name:     "StrFind",
		MinArity: 2,
		MaxArity: 2,
		Args:     []Kind{KindString, KindString},
		Invoke: func(inv *Invocation) Outcome {
			s, sub := inv.Args[0].Str(), inv.Args[1].Str()
			byteIdx := strings.Index(s, sub)
			if byteIdx < 0 {
				return Complete(IntValue(-1))
			}
			return Complete(IntValue(int64(len([]rune(s[:byteIdx])))))
		},
	})

	r.Register(&Builtin{
		Name:     "ToString",
		MinArity: 1,
		MaxArity: 1,
		Args:     []Kind{KindAny},
		Invoke: func(inv *Invocation) Outcome {
			return Complete(StringValue(inv.Args[0].String()))
		},
	})

	r.Register(&Builtin{
		Name:     "ToInt",
		MinArity: 1,
		MaxArity: 1,
		Args:     []Kind{KindAny},
		Invoke: func(inv *Invocation) Outcome {
			switch v := inv.Args[0]; v.Kind() {
			case KindInt:
				return Complete(v)
			case KindFloat:
				return Complete(IntValue(int64(v.Float())))
			case KindBool:
				if v.Bool() {
					return Complete(IntValue(1))
				}
				return Complete(IntValue(0))
			case KindString:
				n, err := strconv.ParseInt(strings.TrimSpace(v.Str()), 10, 64)
				if err != nil {
					return Failf(ErrBadArgument, "ToInt: %q is not an integer", v.Str())
				}
				return Complete(IntValue(n))
			default:
				return Failf(ErrTypeMismatch, "ToInt cannot convert %s", v.Kind())
			}
		},
	})
}
