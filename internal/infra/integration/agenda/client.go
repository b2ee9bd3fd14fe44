package agenda

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/xavierca1/citasalud/internal/entity"
)

// ErrUpstreamUnavailable: la agenda respondió 200 pero con result != "OK".
// La capa HTTP lo mapea a UPSTREAM_UNAVAILABLE.
var ErrUpstreamUnavailable = errors.New("la agenda externa no está disponible")

// StatusError: la agenda respondió con un status HTTP de error (auth
// fallida, 4xx en disponibilidad, 5xx en reserva). La capa HTTP lo mapea
// a UPSTREAM_ERROR, nunca a un 500 propio.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("error agenda (%d): %s", e.StatusCode, e.Body)
}

type Client struct {
	BaseURL      string
	HTTPClient   *http.Client
	ClientID     string
	ClientSecret string

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(baseURL, clientID, clientSecret string) *Client {
	return &Client{
		BaseURL:      baseURL,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}
}

func (c *Client) ensureAuthenticated(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Add(30*time.Second).Before(c.tokenExpiry) {
		return nil
	}

	payload := map[string]string{
		"client_id":     c.ClientID,
		"client_secret": c.ClientSecret,
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/authentication", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("error de red en auth: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return &StatusError{StatusCode: resp.StatusCode, Body: "fallo de autenticación"}
	}

	var data authResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return fmt.Errorf("error decode auth: %w", err)
	}

	c.token = data.Token
	exp := data.ExpiresIn
	if exp == 0 {
		exp = 3600 // Default 1h
	}
	c.tokenExpiry = time.Now().Add(time.Duration(exp) * time.Second)

	return nil
}

// GetAvailabilities consulta los huecos libres de un día para una
// actividad/zona. Devuelve los slots ordenados por
// (start_date, start_time, resource_id).
func (c *Client) GetAvailabilities(ctx context.Context, areaID, activityID, startDate string) ([]entity.SlotCandidate, error) {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("area_id", areaID)
	q.Set("activity_id", activityID)
	q.Set("start_date", startDate)
	q.Set("lang", "es")

	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/availabilities?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error de red al consultar disponibilidad: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var data availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decode disponibilidad: %w", err)
	}
	if data.Result != "OK" {
		return nil, ErrUpstreamUnavailable
	}

	return mapAvailabilities(data.Availabilities), nil
}

// CreateReservation da de alta la reserva. Devuelve un outcome tipado
// para todo lo que sea respuesta del upstream (confirmada, conflicto,
// rechazo); solo los fallos de transporte y los 5xx salen como error.
func (c *Client) CreateReservation(ctx context.Context, request entity.ReservationRequest) (*entity.ReservationOutcome, error) {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}

	jsonBody, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/reservations", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error de red al reservar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var data reservationResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decode reserva: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusConflict:
		return &entity.ReservationOutcome{
			Status: entity.ReservationConflict,
			Reason: data.Message,
		}, nil

	case resp.StatusCode >= 400:
		return &entity.ReservationOutcome{
			Status: entity.ReservationRejected,
			Reason: data.Message,
		}, nil

	case data.Result != "OK":
		return &entity.ReservationOutcome{
			Status: entity.ReservationRejected,
			Reason: data.Message,
		}, nil
	}

	return &entity.ReservationOutcome{
		Status:        entity.ReservationConfirmed,
		AppointmentID: data.AppointmentID,
	}, nil
}
