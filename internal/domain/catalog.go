package domain

import "github.com/m04kA/SMC-SchedulingService/pkg/money"

// ServiceOption is a bookable variant of a service with its own duration and price
type ServiceOption struct {
	ID              int64
	ServiceID       int64
	ServiceName     string
	Name            string
	DurationMinutes int
	Price           money.Cents
	IsActive        bool
}

// DisplayName joins the service and option names for history records
func (o *ServiceOption) DisplayName() string {
	if o.Name == "" {
		return o.ServiceName
	}
	return o.ServiceName + " (" + o.Name + ")"
}

// Therapist represents a staff member who delivers sessions
type Therapist struct {
	ID       int64
	Name     string
	IsActive bool
}

// Client represents a person booking sessions
type Client struct {
	ID    int64
	Name  string
	Email *string
}
