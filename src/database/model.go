package database

import (
	"fmt"

	"github.com/jinzhu/gorm"
)

// State and District form the location directory the worker refreshes.
type State struct {
	gorm.Model
	StateID   int `gorm:"index"`
	StateName string
}

type District struct {
	gorm.Model
	StateID      int `gorm:"index"`
	DistrictID   int `gorm:"index"`
	DistrictName string
}

// Subscription is a saved search a chat wants to be notified about.
type Subscription struct {
	gorm.Model
	ChatID     int64 `gorm:"index"`
	DistrictID string
	Pincode    string
	MinAge     int
	Dose       int
	Label      string
}

// Tables lists every model for AutoMigrateTables.
func Tables() []interface{} {
	return []interface{}{&State{}, &District{}, &Subscription{}}
}

func (s Subscription) Target() string {
	if s.Pincode != "" {
		return "pincode " + s.Pincode
	}
	return "district " + s.DistrictID
}

func (s Subscription) String() string {
	text := fmt.Sprintf("#%d %s, age %d+", s.ID, s.Target(), s.MinAge)
	if s.Dose > 0 {
		text += fmt.Sprintf(", dose %d", s.Dose)
	}
	if s.Label != "" {
		text += " (" + s.Label + ")"
	}
	return text
}

// AddSubscription stores s and fills in its ID.
func (d *DatabaseConnection) AddSubscription(s *Subscription) error {
	if err := d.Connection.Create(s).Error; err != nil {
		return fmt.Errorf("saving subscription for chat %d: %w", s.ChatID, err)
	}
	return nil
}

func (d *DatabaseConnection) ListSubscriptions() ([]Subscription, error) {
	var subscriptions []Subscription
	if err := d.Connection.Order("id").Find(&subscriptions).Error; err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}
	return subscriptions, nil
}

func (d *DatabaseConnection) SubscriptionsOf(chatID int64) ([]Subscription, error) {
	var subscriptions []Subscription
	if err := d.Connection.Where("chat_id = ?", chatID).Order("id").Find(&subscriptions).Error; err != nil {
		return nil, fmt.Errorf("listing subscriptions of chat %d: %w", chatID, err)
	}
	return subscriptions, nil
}

// RemoveSubscriptions deletes every subscription of chatID.
func (d *DatabaseConnection) RemoveSubscriptions(chatID int64) (int64, error) {
	return d.DeleteRecords("chat_id = ?", &Subscription{}, chatID)
}

func (d *DatabaseConnection) States() ([]State, error) {
	var states []State
	if err := d.Connection.Order("state_name").Find(&states).Error; err != nil {
		return nil, fmt.Errorf("listing states: %w", err)
	}
	return states, nil
}

func (d *DatabaseConnection) DistrictsOf(stateID int) ([]District, error) {
	var districts []District
	if err := d.Connection.Where("state_id = ?", stateID).Order("district_name").Find(&districts).Error; err != nil {
		return nil, fmt.Errorf("listing districts of state %d: %w", stateID, err)
	}
	return districts, nil
}
