package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/assinaclub/ms-go-billing/app/entity"
	"github.com/assinaclub/ms-go-billing/app/types"
)

type GenerateInstallmentsInput struct {
	OwnerID        string
	SubscriptionID string
	TotalCents     int64
	Count          int32
	PaymentMethod  string
	FirstDueDate   time.Time
	StableOrderID  string
}

// GenerateInstallments splits the total into Count installments, one month
// apart. With a stable order id the persisted identity of each installment is
// derived from (order id, sequence), so repeated invocation is an idempotent
// upsert; without one, every call creates fresh records.
func (s *BillingService) GenerateInstallments(ctx context.Context, input GenerateInstallmentsInput) error {
	if input.OwnerID == "" || input.SubscriptionID == "" {
		return ErrInvalidRequest
	}
	if input.Count < types.MinInstallmentCount || input.Count > types.MaxInstallmentCount {
		return fmt.Errorf("%w: installment count must be between %d and %d", ErrInvalidRequest, types.MinInstallmentCount, types.MaxInstallmentCount)
	}

	total := input.TotalCents
	if total < 0 {
		total = 0
	}
	amounts := splitAmount(total, input.Count)

	firstDueDate := input.FirstDueDate
	if firstDueDate.IsZero() {
		firstDueDate = time.Now().UTC()
	}

	now := time.Now().UTC()
	for i, amount := range amounts {
		seq := int32(i + 1)

		id := uuid.NewString()
		var orderID *string
		if input.StableOrderID != "" {
			id = deterministicInstallmentID(input.StableOrderID, seq)
			stable := input.StableOrderID
			orderID = &stable
		}

		installment := &entity.Installment{
			ID:             id,
			OwnerID:        input.OwnerID,
			SubscriptionID: input.SubscriptionID,
			OrderID:        orderID,
			SeqNumber:      seq,
			AmountCents:    amount,
			DueDate:        addMonthsClamped(firstDueDate, i),
			PaymentMethod:  optionalString(input.PaymentMethod),
			Status:         int32(types.InstallmentStatusPending),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.installmentRepo.Upsert(ctx, installment); err != nil {
			return err
		}
	}

	return nil
}

// splitAmount distributes total across count installments. The remainder of
// the integer division goes to the earliest installments, one extra unit
// each, so the amounts always sum back to total and differ by at most one.
func splitAmount(total int64, count int32) []int64 {
	base := total / int64(count)
	remainder := total - base*int64(count)

	amounts := make([]int64, count)
	for i := range amounts {
		amounts[i] = base
		if int64(i) < remainder {
			amounts[i]++
		}
	}
	return amounts
}

func deterministicInstallmentID(orderID string, seq int32) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s:%d", orderID, seq))).String()
}

// addMonthsClamped advances t by whole calendar months keeping the
// day-of-month, clamping to the last day when the target month is shorter
// (Jan 31 + 1 month = Feb 28/29).
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
