package planner

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/craftplan/pkg/rational"
)

// Bottleneck is an upstream device bank whose craft capacity is lower than
// any other bank's. Rate is that capacity in crafts per time base.
type Bottleneck struct {
	DeviceID    string            `json:"itemId" yaml:"itemId"`
	DeviceName  string            `json:"deviceName" yaml:"deviceName"`
	ItemID      string            `json:"producedItemId" yaml:"producedItemId"`
	Rate        rational.Rational `json:"rate" yaml:"rate"`
	Description string            `json:"description" yaml:"description"`
	PerMinute   float64           `json:"perMinute" yaml:"perMinute"`
}

// FindBottleneck returns the device bank with the lowest production rate,
// or nil when there is no final device or the slowest bank is the final one.
// A slow final device is expected: the chain is sized for its delivery.
// Ties go to the earliest device. The description quotes the bank's
// PerMinute, so devices should be presented first.
func FindBottleneck(devices []DeviceConfig) *Bottleneck {
	final := -1
	for i, d := range devices {
		if d.IsFinal() {
			final = i
			break
		}
	}
	if final < 0 {
		return nil
	}

	slowest := 0
	for i := 1; i < len(devices); i++ {
		if devices[i].ProductionRate.Less(devices[slowest].ProductionRate) {
			slowest = i
		}
	}
	if slowest == final {
		return nil
	}

	d := devices[slowest]
	return &Bottleneck{
		DeviceID:    d.DeviceID,
		DeviceName:  d.DeviceName,
		ItemID:      d.ItemID,
		Rate:        d.ProductionRate,
		PerMinute:   d.PerMinute,
		Description: fmt.Sprintf("%s capacity limited (%s crafts/min of %s)", d.DeviceName, strconv.FormatFloat(math.Round(d.PerMinute*100)/100, 'f', -1, 64), d.ItemName),
	}
}
