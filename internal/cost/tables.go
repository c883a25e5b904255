package cost

import "fmt"

// FrequencyTable maps a logical n-gram (1..3 symbols) to its occurrence count
// in the corpus.
type FrequencyTable map[string]int

// TimingTable maps a physical n-gram (1..3 key symbols) to its average elapsed
// duration in milliseconds.
type TimingTable map[string]float64

// FrequencySet bundles the three n-gram orders of corpus counts.
type FrequencySet struct {
	Uni FrequencyTable
	Bi  FrequencyTable
	Tri FrequencyTable
}

// TimingSet bundles the three n-gram orders of measured timings.
type TimingSet struct {
	Uni TimingTable
	Bi  TimingTable
	Tri TimingTable
}

// Order selects exactly one n-gram granularity for a cost evaluation, so the
// same keystrokes are never counted at multiple granularities.
type Order int

const (
	OrderUnigram Order = iota + 1
	OrderBigram
	OrderTrigram
)

func (o Order) String() string {
	switch o {
	case OrderUnigram:
		return "uni"
	case OrderBigram:
		return "bi"
	case OrderTrigram:
		return "tri"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

// ParseOrder maps the configuration spelling to an Order.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "uni":
		return OrderUnigram, nil
	case "bi":
		return OrderBigram, nil
	case "tri":
		return OrderTrigram, nil
	default:
		return 0, fmt.Errorf("unknown cost order: %q (want uni|bi|tri)", s)
	}
}
