package orders_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openlabs-org/labops/orders"
)

var _ = Describe("Snapshot normalization", func() {
	Describe("NormalizeKeys", func() {
		It("rewrites snake_case keys to camelCase", func() {
			doc := map[string]interface{}{
				"result_entered_at": "2026-08-20T10:00:00Z",
			}

			normalized := orders.NormalizeKeys(doc)
			Expect(normalized).To(HaveKey("resultEnteredAt"))
			Expect(normalized).ToNot(HaveKey("result_entered_at"))
		})

		It("prefers the camelCase spelling when both are present", func() {
			doc := map[string]interface{}{
				"resultEnteredAt":   "2026-08-20T10:00:00Z",
				"result_entered_at": "2026-08-19T08:00:00Z",
			}

			normalized := orders.NormalizeKeys(doc)
			Expect(normalized["resultEnteredAt"]).To(Equal("2026-08-20T10:00:00Z"))
		})

		It("leaves _id alone", func() {
			doc := map[string]interface{}{
				"_id": "abc",
			}

			Expect(orders.NormalizeKeys(doc)).To(HaveKeyWithValue("_id", "abc"))
		})

		It("normalizes nested documents and arrays", func() {
			doc := map[string]interface{}{
				"tests": []interface{}{
					map[string]interface{}{
						"result_validated_at": "2026-08-20T10:00:00Z",
					},
				},
			}

			normalized := orders.NormalizeKeys(doc)
			tests := normalized["tests"].([]interface{})
			Expect(tests[0]).To(HaveKey("resultValidatedAt"))
		})
	})

	Describe("DecodeOrders", func() {
		It("decodes timestamps from either naming convention", func() {
			raw := []map[string]interface{}{
				{
					"priority": "urgent",
					"tests": []interface{}{
						map[string]interface{}{
							"testCode":            "CBC",
							"status":              "resulted",
							"result_entered_at":   "2026-08-20T10:00:00Z",
							"resultValidatedAt":   "2026-08-20T11:00:00Z",
							"result_validated_at": "2026-08-19T09:00:00Z",
						},
					},
				},
			}

			decoded, err := orders.DecodeOrders(raw)
			Expect(err).ToNot(HaveOccurred())
			Expect(decoded).To(HaveLen(1))

			test := decoded[0].Tests[0]
			Expect(test.TestCode).To(Equal("CBC"))
			Expect(test.Status).To(Equal(orders.TestStatusResulted))
			Expect(test.ResultEnteredAt).ToNot(BeNil())
			Expect(*test.ResultEnteredAt).To(BeTemporally("==", time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)))
			Expect(test.ResultValidatedAt).ToNot(BeNil())
			Expect(*test.ResultValidatedAt).To(BeTemporally("==", time.Date(2026, 8, 20, 11, 0, 0, 0, time.UTC)))
		})

		It("decodes rejection history records", func() {
			raw := []map[string]interface{}{
				{
					"tests": []interface{}{
						map[string]interface{}{
							"testCode": "GLU",
							"status":   "rejected",
							"resultRejectionHistory": []interface{}{
								map[string]interface{}{
									"rejectionType": "re-test",
									"reason":        "hemolyzed aliquot",
									"rejectedAt":    "2026-08-20T10:00:00Z",
									"rejectedBy":    "j.doe",
								},
							},
						},
					},
				},
			}

			decoded, err := orders.DecodeOrders(raw)
			Expect(err).ToNot(HaveOccurred())

			history := decoded[0].Tests[0].RejectionHistory
			Expect(history).To(HaveLen(1))
			Expect(history[0].Type).To(Equal(orders.RejectionTypeRetest))
			Expect(history[0].Reason).To(Equal("hemolyzed aliquot"))
		})
	})
})
