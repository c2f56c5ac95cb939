package offerings

import "time"

// Offering es un servicio que una clínica puede ofrecer (consulta, baño, vacunación...).
// En la API se expone como "services".
type Offering struct {
	ID        string
	Name      string
	Activated bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
