// Package seed carga los datos de demostración (POST /populate y `api populate`).
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"dogpass-api/internal/domain/clinics"
	"dogpass-api/internal/domain/offerings"
	"dogpass-api/internal/domain/pets"
	"dogpass-api/internal/domain/timeline"
	"dogpass-api/internal/domain/users"
	"dogpass-api/internal/domain/vets"
	"dogpass-api/internal/platform/apperr"
	"dogpass-api/internal/platform/logger"
	"dogpass-api/internal/ports/tx"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultData []byte

type Data struct {
	Users      []userSeed     `yaml:"users"`
	Pets       []petSeed      `yaml:"pets"`
	Clinics    []clinicSeed   `yaml:"clinics"`
	Vets       []vetSeed      `yaml:"vets"`
	Services   []string       `yaml:"services"`
	ClinicPets []clinicPet    `yaml:"clinic_pets"`
	Timeline   []timelineSeed `yaml:"timeline"`
}

type userSeed struct {
	Email        string `yaml:"email"`
	Name         string `yaml:"name"`
	Lastname     string `yaml:"lastname"`
	Document     string `yaml:"document"`
	PhoneNumber  string `yaml:"phone_number"`
	Pwd          string `yaml:"pwd"`
	Address      string `yaml:"address"`
	Number       string `yaml:"number"`
	ZipCode      string `yaml:"zip_code"`
	Neighborhood string `yaml:"neighborhood"`
	Username     string `yaml:"username"`
}

type petSeed struct {
	OwnerEmail  string  `yaml:"owner_email"`
	Name        string  `yaml:"name"`
	Species     string  `yaml:"species"`
	Breed       string  `yaml:"breed"`
	Sex         string  `yaml:"sex"`
	Size        string  `yaml:"size"`
	Age         string  `yaml:"age"`
	Castrated   bool    `yaml:"castrated"`
	Weight      float64 `yaml:"weight"`
	Description string  `yaml:"description"`
}

type clinicSeed struct {
	Name         string `yaml:"name"`
	CNPJ         string `yaml:"cnpj"`
	Address      string `yaml:"address"`
	Number       string `yaml:"number"`
	ZipCode      string `yaml:"zip_code"`
	Neighborhood string `yaml:"neighborhood"`
	Username     string `yaml:"username"`
	Pwd          string `yaml:"pwd"`
}

type vetSeed struct {
	Clinic   string `yaml:"clinic"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Pwd      string `yaml:"pwd"`
}

type clinicPet struct {
	Clinic     string `yaml:"clinic"`
	OwnerEmail string `yaml:"owner_email"`
	Pet        string `yaml:"pet"`
}

type timelineSeed struct {
	OwnerEmail  string    `yaml:"owner_email"`
	Pet         string    `yaml:"pet"`
	VetUsername string    `yaml:"vet_username"`
	Type        string    `yaml:"type"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	OccurredAt  time.Time `yaml:"occurred_at"`
}

// Parse decodifica un documento de seed. Campos desconocidos son error.
func Parse(raw []byte) (Data, error) {
	var d Data
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return Data{}, fmt.Errorf("seed: parse: %w", err)
	}
	return d, nil
}

// Default devuelve los datos embebidos en el binario.
func Default() (Data, error) {
	return Parse(defaultData)
}

type Deps struct {
	Users     *users.Service
	Pets      *pets.Service
	Clinics   *clinics.Service
	Vets      *vets.Service
	Offerings *offerings.Service
	Timeline  *timeline.Service
	Tx        tx.Runner
	Log       logger.Logger
}

// Result cuenta lo creado en esta corrida (lo existente no suma).
type Result struct {
	Users    int
	Pets     int
	Clinics  int
	Vets     int
	Services int
	Links    int
	Timeline int
	// Reactivated cuenta usuarios, clínicas y vets desactivados que se
	// volvieron a activar en vez de crearse.
	Reactivated int
}

// Populate carga d en una sola transacción. Es idempotente: usuarios se
// buscan por email, clínicas por CNPJ, vets por username, servicios por
// nombre y mascotas por (dueño, nombre). Si la fila existe desactivada se
// reactiva (los índices únicos cubren también las inactivas). Mascotas e
// ítems del historial no tienen clave única: los desactivados se recrean.
func Populate(ctx context.Context, deps Deps, d Data) (Result, error) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	var res Result
	err := deps.Tx.WithinTx(ctx, "populate", func(ctx context.Context) error {
		l := loader{deps: deps, res: &res,
			users:    map[string]users.User{},
			pets:     map[string]pets.Pet{},
			clinics:  map[string]clinics.Clinic{},
			vets:     map[string]vets.Vet{},
			services: map[string]offerings.Offering{},
		}
		steps := []func(context.Context, Data) error{
			l.loadUsers, l.loadPets, l.loadServices, l.loadClinics,
			l.loadVets, l.linkPets, l.loadTimeline,
		}
		for _, step := range steps {
			if err := step(ctx, d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	log.Info("database populated", map[string]any{
		"users":    res.Users,
		"pets":     res.Pets,
		"clinics":  res.Clinics,
		"vets":     res.Vets,
		"services": res.Services,
		"links":    res.Links,
		"timeline":    res.Timeline,
		"reactivated": res.Reactivated,
	})
	return res, nil
}

type loader struct {
	deps Deps
	res  *Result

	users    map[string]users.User         // por email
	pets     map[string]pets.Pet           // por email/nombre
	clinics  map[string]clinics.Clinic     // por nombre
	vets     map[string]vets.Vet           // por username
	services map[string]offerings.Offering // por nombre
}

// existing devuelve la fila activa con esa clave o reactiva una desactivada.
// ok=false significa que no existe y hay que crearla.
func existing[T any](ctx context.Context, key string, get, reactivate func(context.Context, string) (T, error), res *Result) (v T, ok bool, err error) {
	v, err = get(ctx, key)
	if err == nil || !apperr.IsNotFound(err) {
		return v, err == nil, err
	}
	v, err = reactivate(ctx, key)
	if err == nil {
		res.Reactivated++
		return v, true, nil
	}
	if !apperr.IsNotFound(err) {
		return v, false, err
	}
	return v, false, nil
}

func petKey(ownerEmail, name string) string {
	return strings.ToLower(strings.TrimSpace(ownerEmail)) + "/" + strings.TrimSpace(name)
}

func (l *loader) loadUsers(ctx context.Context, d Data) error {
	for _, s := range d.Users {
		u, ok, err := existing(ctx, s.Email, l.deps.Users.GetByLogin, l.deps.Users.Reactivate, l.res)
		if err != nil {
			return err
		}
		if !ok {
			u, err = l.deps.Users.Create(ctx, users.CreateInput{
				Email: s.Email, Name: s.Name, Lastname: s.Lastname,
				Document: s.Document, PhoneNumber: s.PhoneNumber, Pwd: s.Pwd,
				Address: s.Address, Number: s.Number, ZipCode: s.ZipCode,
				Neighborhood: s.Neighborhood, Username: s.Username,
			})
			if err != nil {
				return fmt.Errorf("seed user %s: %w", s.Email, err)
			}
			l.res.Users++
		}
		l.users[strings.ToLower(s.Email)] = u
	}
	return nil
}

func (l *loader) owner(email string) (users.User, error) {
	u, ok := l.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return users.User{}, apperr.Invalid("seed references unknown user %s", email)
	}
	return u, nil
}

func (l *loader) loadPets(ctx context.Context, d Data) error {
	for _, s := range d.Pets {
		owner, err := l.owner(s.OwnerEmail)
		if err != nil {
			return err
		}
		existing, err := l.deps.Pets.ListByOwner(ctx, owner.ID)
		if err != nil {
			return err
		}

		var found *pets.Pet
		for i := range existing {
			if existing[i].Name == s.Name {
				found = &existing[i]
				break
			}
		}
		if found == nil {
			castrated, weight := s.Castrated, s.Weight
			p, err := l.deps.Pets.Create(ctx, pets.CreateInput{
				OwnerUserID: owner.ID, Name: s.Name, Species: s.Species,
				Breed: s.Breed, Sex: s.Sex, Size: s.Size, Age: s.Age,
				Castrated: &castrated, Weight: &weight, Description: s.Description,
			})
			if err != nil {
				return fmt.Errorf("seed pet %s: %w", s.Name, err)
			}
			found = &p
			l.res.Pets++
		}
		l.pets[petKey(s.OwnerEmail, s.Name)] = *found
	}
	return nil
}

func (l *loader) loadServices(ctx context.Context, d Data) error {
	before, err := l.deps.Offerings.List(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(before))
	for _, o := range before {
		known[strings.ToLower(o.Name)] = true
	}

	for _, name := range d.Services {
		o, err := l.deps.Offerings.Ensure(ctx, name)
		if err != nil {
			return fmt.Errorf("seed service %s: %w", name, err)
		}
		if !known[strings.ToLower(o.Name)] {
			known[strings.ToLower(o.Name)] = true
			l.res.Services++
		}
		l.services[o.Name] = o
	}
	return nil
}

func (l *loader) loadClinics(ctx context.Context, d Data) error {
	for _, s := range d.Clinics {
		c, ok, err := existing(ctx, s.CNPJ, l.deps.Clinics.GetByCNPJ, l.deps.Clinics.Reactivate, l.res)
		if err != nil {
			return err
		}
		if !ok {
			c, err = l.deps.Clinics.Create(ctx, clinics.CreateInput{
				Name: s.Name, CNPJ: s.CNPJ, Address: s.Address, Number: s.Number,
				ZipCode: s.ZipCode, Neighborhood: s.Neighborhood,
				Username: s.Username, Pwd: s.Pwd,
			})
			if err != nil {
				return fmt.Errorf("seed clinic %s: %w", s.CNPJ, err)
			}
			l.res.Clinics++
		}
		l.clinics[c.Name] = c

		// Todas las clínicas ofrecen todos los servicios.
		offered, err := l.deps.Clinics.Services(ctx, c.ID)
		if err != nil {
			return err
		}
		has := make(map[string]bool, len(offered))
		for _, o := range offered {
			has[o.ID] = true
		}
		for _, o := range l.services {
			if has[o.ID] {
				continue
			}
			if _, err := l.deps.Clinics.AddService(ctx, c.ID, o.ID); err != nil {
				return err
			}
			l.res.Links++
		}
	}
	return nil
}

func (l *loader) clinic(name string) (clinics.Clinic, error) {
	c, ok := l.clinics[name]
	if !ok {
		return clinics.Clinic{}, apperr.Invalid("seed references unknown clinic %s", name)
	}
	return c, nil
}

func (l *loader) loadVets(ctx context.Context, d Data) error {
	for _, s := range d.Vets {
		c, err := l.clinic(s.Clinic)
		if err != nil {
			return err
		}
		v, ok, err := existing(ctx, s.Username, l.deps.Vets.GetByUsername, l.deps.Vets.Reactivate, l.res)
		if err != nil {
			return err
		}
		if !ok {
			v, err = l.deps.Vets.Create(ctx, vets.CreateInput{
				ClinicID: c.ID, Name: s.Name, Username: s.Username, Pwd: s.Pwd,
			})
			if err != nil {
				return fmt.Errorf("seed vet %s: %w", s.Username, err)
			}
			l.res.Vets++
		}
		l.vets[v.Username] = v
	}
	return nil
}

func (l *loader) linkPets(ctx context.Context, d Data) error {
	for _, s := range d.ClinicPets {
		c, err := l.clinic(s.Clinic)
		if err != nil {
			return err
		}
		p, ok := l.pets[petKey(s.OwnerEmail, s.Pet)]
		if !ok {
			return apperr.Invalid("seed references unknown pet %s", s.Pet)
		}
		attends, err := l.deps.Clinics.Attends(ctx, c.ID, p.ID)
		if err != nil {
			return err
		}
		if attends {
			continue
		}
		if _, err := l.deps.Clinics.AddPet(ctx, c.ID, p.ID); err != nil {
			return err
		}
		l.res.Links++
	}
	return nil
}

func (l *loader) loadTimeline(ctx context.Context, d Data) error {
	if l.deps.Timeline == nil {
		return nil
	}
	for _, s := range d.Timeline {
		p, ok := l.pets[petKey(s.OwnerEmail, s.Pet)]
		if !ok {
			return apperr.Invalid("seed references unknown pet %s", s.Pet)
		}
		v, ok := l.vets[s.VetUsername]
		if !ok {
			return apperr.Invalid("seed references unknown vet %s", s.VetUsername)
		}

		existing, err := l.deps.Timeline.ListByPet(ctx, p.ID, timeline.ListFilter{Query: s.Title, Limit: 200})
		if err != nil {
			return err
		}
		dup := false
		for _, it := range existing {
			if it.Title == s.Title && it.OccurredAt.Equal(s.OccurredAt) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}

		clinicName := ""
		for _, c := range l.clinics {
			if c.ID == v.ClinicID {
				clinicName = c.Name
				break
			}
		}
		occurred := s.OccurredAt
		actor := timeline.Actor{Type: timeline.ActorTypeVet, ID: v.ID, Name: v.Name, ClinicName: clinicName}
		if _, err := l.deps.Timeline.Create(ctx, p.ID, actor, timeline.CreateInput{
			Type:        timeline.ItemType(s.Type),
			Title:       s.Title,
			Description: s.Description,
			OccurredAt:  &occurred,
		}); err != nil {
			return fmt.Errorf("seed timeline %s: %w", s.Title, err)
		}
		l.res.Timeline++
	}
	return nil
}
