package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"partybus/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationStopRequested    NotificationType = "stop_requested"
	NotificationStopApproved     NotificationType = "stop_approved"
	NotificationStopDenied       NotificationType = "stop_denied"
	NotificationBookingConfirmed NotificationType = "booking_confirmed"
	NotificationOperatorApproved NotificationType = "operator_approved"
)

// Notification represents an event to be delivered to a customer or operator.
type Notification struct {
	Type        NotificationType       `json:"type"`
	RecipientID string                 `json:"recipient_id"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Data        map[string]interface{} `json:"data,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// NotificationService publishes notification events. Events always go to the
// log; when a Kafka writer is configured they are also published for the
// delivery pipeline (email, SMS, push) to consume. Delivery guarantees belong
// to that pipeline, not this service.
type NotificationService struct {
	writer *kafka.Writer
}

// NewNotificationService creates a log-only NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NewNotificationServiceWithKafka creates a NotificationService that also
// publishes events to the given Kafka topic.
func NewNotificationServiceWithKafka(brokers []string, topic string) *NotificationService {
	w := kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: topic, Balancer: &kafka.LeastBytes{}})
	return &NotificationService{writer: w}
}

// Close flushes and closes the Kafka writer, if any.
func (s *NotificationService) Close() error {
	if s.writer == nil {
		return nil
	}
	return s.writer.Close()
}

// NotifyStopRequested tells the operator's driver about a new stop request.
func (s *NotificationService) NotifyStopRequested(ctx context.Context, req *domain.StopRequest, operatorID string) error {
	return s.send(ctx, Notification{
		Type:        NotificationStopRequested,
		RecipientID: operatorID,
		Title:       "New stop request",
		Message:     fmt.Sprintf("Stop at %s for %d min (+$%.0f). Respond within 2 minutes.", req.StopAddress, req.EstimatedDuration, req.AdditionalCost),
		Data: map[string]interface{}{
			"request_id":      req.ID,
			"booking_id":      req.BookingID,
			"stop_address":    req.StopAddress,
			"detour_minutes":  req.DetourMinutes,
			"additional_cost": req.AdditionalCost,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyStopApproved tells the customer their stop was approved.
func (s *NotificationService) NotifyStopApproved(ctx context.Context, req *domain.StopRequest, customerID string) error {
	return s.send(ctx, Notification{
		Type:        NotificationStopApproved,
		RecipientID: customerID,
		Title:       "Stop approved",
		Message:     fmt.Sprintf("Your driver will stop at %s. $%.0f has been added to your trip.", req.StopAddress, req.AdditionalCost),
		Data: map[string]interface{}{
			"request_id":      req.ID,
			"booking_id":      req.BookingID,
			"additional_cost": req.AdditionalCost,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyStopDenied tells the customer their stop was denied, with the reason,
// so the app can offer a retry with a different location or duration.
func (s *NotificationService) NotifyStopDenied(ctx context.Context, req *domain.StopRequest, customerID string) error {
	return s.send(ctx, Notification{
		Type:        NotificationStopDenied,
		RecipientID: customerID,
		Title:       "Stop not possible",
		Message:     fmt.Sprintf("The driver could not accommodate the stop at %s.", req.StopAddress),
		Data: map[string]interface{}{
			"request_id": req.ID,
			"booking_id": req.BookingID,
			"reason":     req.DenyReason,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyBookingConfirmed sends the booking confirmation to the customer.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, booking *domain.Booking, customer *domain.Customer) error {
	return s.send(ctx, Notification{
		Type:        NotificationBookingConfirmed,
		RecipientID: customer.ID,
		Title:       "Booking confirmed",
		Message:     fmt.Sprintf("Your party bus is booked for %s. Total: $%.0f.", booking.StartsAt.Format("Jan 2 3:04 PM"), booking.TotalPrice),
		Data: map[string]interface{}{
			"booking_id":  booking.ID,
			"total_price": booking.TotalPrice,
			"deposit":     booking.DepositAmount,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyOperatorApproved tells an operator their listing went live.
func (s *NotificationService) NotifyOperatorApproved(ctx context.Context, operator *domain.Operator) error {
	return s.send(ctx, Notification{
		Type:        NotificationOperatorApproved,
		RecipientID: operator.ID,
		Title:       "You're approved",
		Message:     fmt.Sprintf("%s is now live on the marketplace.", operator.CompanyName),
		CreatedAt:   time.Now(),
	})
}

// send logs the notification and publishes it to Kafka when configured.
// Publishing is best effort with a short deadline; a broker outage must not
// fail the business operation that triggered the event.
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)

	if s.writer == nil {
		return nil
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := s.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(notification.RecipientID),
		Value: payload,
	}); err != nil {
		log.Printf("notification publish failed: %v", err)
	}

	return nil
}
