package core

import "time"

type Employee struct {
	ID            string     `json:"employeeId"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone,omitempty"`
	NINumber      string     `json:"niNumber,omitempty"`
	HourlyRateA   float64    `json:"hourlyRateA"`
	HourlyRateB   float64    `json:"hourlyRateB"`
	HoursForRateA float64    `json:"hoursForRateA"`
	IsActive      bool       `json:"isActive"`
	HireDate      time.Time  `json:"hireDate"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// EmployeeListItem joins the employee with its login user and the active
// station assignments, shaped for the staff list screens.
type EmployeeListItem struct {
	Employee
	UserID      string        `json:"id,omitempty"`
	Role        string        `json:"role,omitempty"`
	Stations    []StationLink `json:"stations"`
	LastLoginAt *time.Time    `json:"lastLoginAt,omitempty"`
}

type StationLink struct {
	StationID string `json:"stationId"`
	Code      string `json:"code"`
	Name      string `json:"name"`
}

type Station struct {
	ID        string     `json:"stationId"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	Address   string     `json:"address,omitempty"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type ShiftType struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type UserAccount struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"isActive"`
	EmployeeID  string     `json:"employeeId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
}
