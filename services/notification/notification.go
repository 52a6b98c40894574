package notification

import (
	"encoding/json"
	"fmt"

	"github.com/olahol/melody"
)

// SessionUserKey is the melody session key holding the user id.
const SessionUserKey = "userID"

type Service interface {
	SendMessage(message string) error
	SendToUser(userID uint, payload []byte) error
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

// SendMessage broadcasts to every connected session.
func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.Broadcast([]byte(message))
}

// SendToUser writes to the sessions opened by userID only.
func (s *MelodyService) SendToUser(userID uint, payload []byte) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.BroadcastFilter(payload, func(sess *melody.Session) bool {
		id, ok := sess.Get(SessionUserKey)
		return ok && id == userID
	})
}

// Event is the JSON frame pushed to websocket clients.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type MessageBuilder struct {
	event Event
}

func NewMessageBuilder(eventType string) *MessageBuilder {
	return &MessageBuilder{event: Event{Type: eventType}}
}

func (b *MessageBuilder) WithData(data interface{}) *MessageBuilder {
	b.event.Data = data
	return b
}

func (b *MessageBuilder) Build() ([]byte, error) {
	return json.Marshal(b.event)
}
