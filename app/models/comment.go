package models

import (
	"errors"
	"time"
)

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.CreatedDate.IsZero() {
		return errors.New("created_date cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate() {
	if c.CreatedDate.IsZero() {
		c.CreatedDate = time.Now()
	}
}

// Approve marks the comment visible on its post.
func (c *Comment) Approve() {
	c.Approved = true
}

func (c *Comment) String() string {
	return c.Text
}
