package cydur

// Unit sizes. Second based ladders count in seconds, the nanosecond ladder
// multiplies the second based sizes by NanosPerSecond.
const (
	Nanosecond     uint64 = 1
	Microsecond    uint64 = 1_000
	Millisecond    uint64 = 1_000_000
	NanosPerSecond uint64 = 1_000_000_000

	Second uint64 = 1
	Minute uint64 = 60
	Hour   uint64 = 3_600
	Day    uint64 = 86_400
	Week   uint64 = 604_800
)

// µs 使用 U+00B5 (micro sign)，不是希腊字母 U+03BC
const microLabel = "µs"

var (
	dhmsLadder = Ladder{
		{Label: "d", Size: Day},
		{Label: "h", Size: Hour},
		{Label: "m", Size: Minute},
		{Label: "s", Size: Second},
	}

	wdhmsLadder = append(Ladder{{Label: "w", Size: Week}}, dhmsLadder...)

	nsLadder = Ladder{
		{Label: "d", Size: Day * NanosPerSecond},
		{Label: "h", Size: Hour * NanosPerSecond},
		{Label: "m", Size: Minute * NanosPerSecond},
		{Label: "s", Size: Second * NanosPerSecond},
		{Label: "ms", Size: Millisecond},
		{Label: microLabel, Size: Microsecond},
		{Label: "ns", Size: Nanosecond},
	}
)
