// Package render turns view snapshots into the input of a renderer: plain
// strings in Spanish, ready to be drawn.
package render

import (
	"errors"
	"fmt"
	"strings"

	"car-listings-viewer/internal/client"
	"car-listings-viewer/internal/model"
	"car-listings-viewer/internal/service"
)

const (
	PlaceholderThumbnail = "https://via.placeholder.com/256x192?text=Sin+Imagen"
	PlaceholderImage     = "https://via.placeholder.com/600x450?text=No+Disponible"

	MsgLoading       = "Cargando coches..."
	MsgNoResults     = "No se encontraron coches con esos criterios de búsqueda."
	MsgPageFailed    = "No se pudieron cargar los listados de coches."
	MsgNoImages      = "No hay imágenes disponibles para este coche."
	MsgDetailLoading = "Cargando detalles..."
	MsgDetailFailed  = "No se pudieron cargar los detalles del coche. Asegúrate de que el servidor API esté funcionando."
	MsgDetailMissing = "No se encontró el anuncio solicitado."
	LabelTour        = "Ver Tour 360"
)

type Card struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	Price    string `json:"price"`
	Mileage  string `json:"mileage"`
	Year     string `json:"year"`
	Dealer   string `json:"dealer"`
}

type Controls struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	PrevEnabled bool `json:"prev_enabled"`
	NextEnabled bool `json:"next_enabled"`
}

// PageView is the card grid with its pagination controls. Error holds the
// full-width inline error after a failed fetch.
type PageView struct {
	Status     string   `json:"status"`
	Term       string   `json:"term"`
	Message    string   `json:"message,omitempty"`
	Error      string   `json:"error,omitempty"`
	Cards      []Card   `json:"cards"`
	Pagination Controls `json:"pagination"`
}

type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ImagePane is the carousel; it is redrawn on its own when the index moves.
type ImagePane struct {
	URL         string `json:"url,omitempty"`
	Position    string `json:"position,omitempty"`
	PrevEnabled bool   `json:"prev_enabled"`
	NextEnabled bool   `json:"next_enabled"`
	Message     string `json:"message,omitempty"`
}

type DetailView struct {
	State        string    `json:"state"`
	ID           string    `json:"id,omitempty"`
	Title        string    `json:"title,omitempty"`
	Fields       []Field   `json:"fields,omitempty"`
	AdURL        string    `json:"ad_url,omitempty"`
	TourURL      string    `json:"tour_url,omitempty"`
	TourLabel    string    `json:"tour_label,omitempty"`
	Images       ImagePane `json:"images"`
	Notification string    `json:"notification,omitempty"`
	CanRetry     bool      `json:"can_retry"`
}

type AnalysisView struct {
	TotalImages       string `json:"total_images"`
	AverageWeight     string `json:"average_weight"`
	AverageDimensions string `json:"average_dimensions"`
}

// Page renders the card grid. apiBase is quoted in the error message.
func Page(snap service.Snapshot, apiBase string) PageView {
	v := PageView{
		Status: snap.Status.String(),
		Term:   snap.Term,
		Cards:  []Card{},
		Pagination: Controls{
			CurrentPage: snap.Window.Page,
			TotalPages:  snap.Window.TotalPages(),
			PrevEnabled: snap.CanPrev,
			NextEnabled: snap.CanNext,
		},
	}

	switch snap.Status {
	case service.PageIdle, service.PageLoading:
		v.Message = MsgLoading
	case service.PageFailed:
		v.Error = fmt.Sprintf("Error al cargar los coches: %s. Asegúrate de que el servidor API esté funcionando en %s.",
			describeError(snap.Err), apiBase)
		v.Message = MsgPageFailed
	case service.PageLoaded:
		for _, l := range snap.Items {
			v.Cards = append(v.Cards, card(l))
		}
		if len(v.Cards) == 0 {
			v.Message = MsgNoResults
		}
	}
	return v
}

func card(l model.Listing) Card {
	image := PlaceholderThumbnail
	if u := Link(l.ThumbnailURL); u != "" {
		image = u
	}
	return Card{
		ID:       l.ID,
		Title:    title(l.Brand, l.Model),
		ImageURL: image,
		Price:    Price(l.Price),
		Mileage:  Mileage(l.Mileage),
		Year:     Int(l.Year),
		Dealer:   Text(l.Dealer),
	}
}

func title(brand, model string) string {
	return Text(brand) + " " + Text(model)
}

// Detail renders the detail view. It is either fully populated, fully
// failed, loading or closed.
func Detail(snap service.DetailSnapshot) DetailView {
	v := DetailView{State: snap.State.String(), ID: snap.ID}

	switch snap.State {
	case service.DetailLoading:
		v.Images.Message = MsgDetailLoading
	case service.DetailFailed:
		v.Notification = MsgDetailFailed
		if errors.Is(snap.Err, client.ErrNotFound) {
			v.Notification = MsgDetailMissing
		}
		v.CanRetry = true
	case service.DetailLoaded:
		d := snap.Detail
		v.Title = title(d.Brand, d.Model)
		v.Fields = detailFields(d)
		v.AdURL = Link(&d.AdURL)
		if tour := Link(d.TourURL); tour != "" {
			v.TourURL = tour
			v.TourLabel = LabelTour
		}
		v.Images = Images(snap)
	}
	return v
}

func detailFields(d *model.ListingDetail) []Field {
	return []Field{
		{"Marca", Text(d.Brand)},
		{"Modelo", Text(d.Model)},
		{"Precio", Price(d.Price)},
		{"Precio financiado", Price(d.FinancedPrice)},
		{"Año", Int(d.Year)},
		{"Concesionario", Text(d.Dealer)},
		{"Motor", Text(d.EngineType)},
		{"Kilómetros", Mileage(d.Mileage)},
		{"Cambio", Text(d.Transmission)},
		{"Localidad", Text(d.Locality)},
		{"Provincia", Text(d.Province)},
		{"Tipo de anuncio", Text(d.ListingType)},
		{"Clase de vehículo", Text(d.VehicleClass)},
		{"Combustible", Text(d.Fuel)},
		{"Carrocería", Text(d.BodyType)},
		{"Garantía", Text(d.Warranty)},
		{"Descripción", Text(d.Description)},
		{"Puertas", Int(d.Doors)},
	}
}

// Images renders only the carousel pane.
func Images(snap service.DetailSnapshot) ImagePane {
	n := len(snap.Images)
	if snap.State != service.DetailLoaded || n == 0 {
		return ImagePane{Message: MsgNoImages}
	}
	url := snap.CurrentImage()
	if url == "" {
		url = PlaceholderImage
	}
	return ImagePane{
		URL:         url,
		Position:    fmt.Sprintf("%d / %d", snap.Index+1, n),
		PrevEnabled: snap.Index > 0,
		NextEnabled: snap.Index < n-1,
	}
}

// Analysis renders the statistics panel; each missing or failed field
// degrades to NotAvailable on its own.
func Analysis(a *model.Analysis, err error) AnalysisView {
	if a == nil || err != nil {
		return AnalysisView{NotAvailable, NotAvailable, NotAvailable}
	}
	v := AnalysisView{
		TotalImages:       NotAvailable,
		AverageWeight:     NotAvailable,
		AverageDimensions: NotAvailable,
	}
	if a.TotalImages.Valid {
		if a.TotalImages.Number != nil {
			v.TotalImages = Count(a.TotalImages.Number)
		} else {
			v.TotalImages = Text(a.TotalImages.Text)
		}
	}
	if a.AverageWeightKB.Valid && a.AverageWeightKB.Number != nil {
		v.AverageWeight = WeightKB(a.AverageWeightKB.Number)
	}
	if a.AverageDimension.Valid {
		v.AverageDimensions = Text(a.AverageDimension.Text)
	}
	return v
}

// describeError turns a fetch error into the short reason shown to users.
func describeError(err error) string {
	if err == nil {
		return "error desconocido"
	}

	var netErr *client.NetworkError
	var malformed *client.MalformedResponseError
	switch {
	case errors.As(err, &netErr) && netErr.StatusCode != 0:
		return fmt.Sprintf("HTTP error! status: %d", netErr.StatusCode)
	case errors.As(err, &netErr):
		return "no se pudo conectar con el servidor"
	case errors.As(err, &malformed):
		return "respuesta inesperada del servidor"
	default:
		return strings.TrimSpace(err.Error())
	}
}
