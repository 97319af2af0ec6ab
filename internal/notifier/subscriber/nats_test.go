package subscriber

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aurelia-labs/jewelstore/pkg/messaging"
	"github.com/aurelia-labs/jewelstore/pkg/messaging/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockAckableMsg struct {
	mock.Mock
}

func (m *mockAckableMsg) Data() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *mockAckableMsg) Subject() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockAckableMsg) Ack() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockAckableMsg) Nak() error {
	args := m.Called()
	return args.Error(0)
}

func Test_handleMessage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	testCases := []struct {
		name       string
		newMockMsg func() *mockAckableMsg
	}{
		{
			name: "valid message",
			newMockMsg: func() *mockAckableMsg {
				validPayload, _ := json.Marshal(&events.OrderPlacedEvent{
					OrderID:    uuid.New(),
					SessionID:  uuid.New(),
					TotalCents: 145292,
					Currency:   "USD",
					CreatedAt:  time.Now(),
				})
				msg := new(mockAckableMsg)
				msg.On("Data").Return(validPayload).Times(1)
				msg.On("Subject").Return(messaging.OrdersPlacedSubject)
				msg.On("Ack").Return(nil).Times(1)
				return msg
			},
		},
		{
			name: "invalid message",
			newMockMsg: func() *mockAckableMsg {
				msg := new(mockAckableMsg)
				msg.On("Data").Return([]byte("invalid data")).Times(1)
				msg.On("Subject").Return(messaging.OrdersPlacedSubject)
				msg.On("Nak").Return(nil).Times(1)
				return msg
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mockMsg := tc.newMockMsg()

			// when
			handleMessage(mockMsg, logger)

			// then
			mockMsg.AssertExpectations(t)
		})
	}
}
