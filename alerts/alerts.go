package alerts

import (
	"regexp"
	"strconv"
	"time"

	"github.com/openlabs-org/labops/orders"
)

// CriticalAlert is a derived view of a critical result parameter that has
// not been phoned out yet. It carries everything the notification needs,
// so consumers never reach back into the snapshot.
type CriticalAlert struct {
	OrderId         string              `json:"orderId"`
	PatientId       string              `json:"patientId,omitempty"`
	TestCode        string              `json:"testCode"`
	TestName        *string             `json:"testName,omitempty"`
	Parameter       string              `json:"parameter"`
	Value           string              `json:"value"`
	Unit            *string             `json:"unit,omitempty"`
	Kind            orders.ResultStatus `json:"kind"`
	Threshold       float64             `json:"threshold"`
	ReferenceRange  *string             `json:"referenceRange,omitempty"`
	ResultEnteredAt *time.Time          `json:"resultEnteredAt,omitempty"`
}

var numericToken = regexp.MustCompile(`-?\d+(\.\d+)?`)

// Detect scans every active test's result map and emits an alert for each
// parameter in a critical state whose test has not been notified yet.
// Notified tests are suppressed here, not just in the presentation layer.
func Detect(snapshot *orders.Snapshot) []CriticalAlert {
	detected := make([]CriticalAlert, 0)
	for i := range snapshot.Orders {
		order := &snapshot.Orders[i]
		for j := range order.Tests {
			test := &order.Tests[j]
			if !test.IsActive() || test.CriticalNotifiedAt != nil {
				continue
			}

			for parameter, result := range test.Results {
				if !orders.CriticalResultStatuses.Contains(result.Status) {
					continue
				}

				alert := CriticalAlert{
					TestCode:        test.TestCode,
					TestName:        test.TestName,
					Parameter:       parameter,
					Value:           result.Value,
					Unit:            result.Unit,
					Kind:            result.Status,
					Threshold:       Threshold(result),
					ReferenceRange:  result.ReferenceRange,
					ResultEnteredAt: test.ResultEnteredAt,
				}
				if order.Id != nil {
					alert.OrderId = order.Id.Hex()
				}
				if order.PatientId != nil {
					alert.PatientId = order.PatientId.Hex()
				}
				detected = append(detected, alert)
			}
		}
	}
	return detected
}

// Threshold extracts the first numeric token of the human-readable
// reference range. When the range is missing or unparseable it falls back
// to the result's own value, so the alert always carries a number.
func Threshold(result orders.Result) float64 {
	if result.ReferenceRange != nil {
		if token := numericToken.FindString(*result.ReferenceRange); token != "" {
			if threshold, err := strconv.ParseFloat(token, 64); err == nil {
				return threshold
			}
		}
	}
	if token := numericToken.FindString(result.Value); token != "" {
		if threshold, err := strconv.ParseFloat(token, 64); err == nil {
			return threshold
		}
	}
	return 0
}
