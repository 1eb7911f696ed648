package service

import (
	"context"
	"fmt"

	"github.com/AccelByte/accelbyte-go-sdk/platform-sdk/pkg/platformclient/fulfillment"
	"github.com/AccelByte/accelbyte-go-sdk/platform-sdk/pkg/platformclientmodels"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/platform"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/social"
	"github.com/AccelByte/accelbyte-go-sdk/social-sdk/pkg/socialclient/user_statistic"
	"github.com/AccelByte/accelbyte-go-sdk/social-sdk/pkg/socialclientmodels"
)

// EntitlementService grants prize items through platform fulfillment.
type EntitlementService struct {
	fulfillment *platform.FulfillmentService
	namespace   string
}

func NewEntitlementService(fulfillmentService *platform.FulfillmentService, namespace string) *EntitlementService {
	return &EntitlementService{
		fulfillment: fulfillmentService,
		namespace:   namespace,
	}
}

// GrantEntitlement fulfills quantity units of itemID as a reward.
func (s *EntitlementService) GrantEntitlement(ctx context.Context, userID, itemID string, quantity int) error {
	qty := int32(quantity)
	input := &fulfillment.FulfillItemParams{
		Namespace: s.namespace,
		UserID:    userID,
		Body: &platformclientmodels.FulfillmentRequest{
			ItemID:   itemID,
			Quantity: &qty,
			Source:   platformclientmodels.FulfillmentRequestSourceREWARD,
		},
		Context: ctx,
	}

	resp, err := s.fulfillment.FulfillItemShort(input)
	if err != nil {
		return fmt.Errorf("failed to fulfill item %s: %w", itemID, err)
	}
	if resp == nil {
		return fmt.Errorf("could not grant item %s to user %s: empty response", itemID, userID)
	}
	return nil
}

// StatisticService mirrors campaign milestones into platform statistics.
type StatisticService struct {
	statistics *social.UserStatisticService
	namespace  string
}

func NewStatisticService(statistics *social.UserStatisticService, namespace string) *StatisticService {
	return &StatisticService{
		statistics: statistics,
		namespace:  namespace,
	}
}

// IncrementStat adds inc to the player's statCode.
func (s *StatisticService) IncrementStat(ctx context.Context, userID, statCode string, inc float64) error {
	input := &user_statistic.IncUserStatItemValueParams{
		Namespace: s.namespace,
		UserID:    userID,
		StatCode:  statCode,
		Body: &socialclientmodels.StatItemInc{
			Inc: inc,
		},
		Context: ctx,
	}

	if _, err := s.statistics.IncUserStatItemValueShort(input); err != nil {
		return fmt.Errorf("failed to increment user %s statistic %s: %w", userID, statCode, err)
	}
	return nil
}
