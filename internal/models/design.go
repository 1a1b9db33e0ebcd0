package models

import (
	"encoding/json"
	"time"
)

// Base is the design context carried from the Valve Data sheet into every
// downstream DC sheet: the NPS/Class pair plus the derived bore and rating
// pressure, and the identity of the valve design they were taken from.
// It replaces the ambient per-session state of the legacy app with an
// explicit value that handlers pass around.
type Base struct {
	DesignID    string  `json:"valve_design_id,omitempty"`
	DesignName  string  `json:"valve_design_name,omitempty"`
	NPSIn       float64 `json:"nps_in"`
	ASMEClass   int     `json:"asme_class"`
	BoreMM      float64 `json:"bore_diameter_mm"`
	PressureMPa float64 `json:"operating_pressure_mpa"`
}

// ValveDesign is one saved Valve Data sheet. Data holds the
// {nps_in, asme_class, calc_operating_pressure_mpa, inputs, calculated}
// document as stored in the JSONB column.
type ValveDesign struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CalcRecord is one persisted calculation row. Data holds the
// {base, inputs, computed} payload as stored in the JSONB column.
type CalcRecord struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	DesignID  *string         `json:"design_id,omitempty"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CalcSummary is the listing shape (no payload).
type CalcSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdminCalcRow is a cross-user listing row for the admin library.
type AdminCalcRow struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Username  string          `json:"username"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CalcPayload is the canonical {base, inputs, computed} envelope saved for
// every DC sheet. Inputs and Computed stay sheet-specific.
type CalcPayload struct {
	Base     Base            `json:"base"`
	Inputs   json.RawMessage `json:"inputs"`
	Computed json.RawMessage `json:"computed"`
}
