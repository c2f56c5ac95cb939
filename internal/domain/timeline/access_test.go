package timeline

import (
	"context"
	"errors"
	"testing"

	"dogpass-api/internal/domain/clinics"
	"dogpass-api/internal/domain/vets"
	"dogpass-api/internal/platform/apperr"
	"dogpass-api/internal/ports/auth"
)

type fakeOwners map[string]string

func (f fakeOwners) OwnerOf(ctx context.Context, petID string) (string, error) {
	o, ok := f[petID]
	if !ok {
		return "", apperr.NotFound("Pet %s not found", petID)
	}
	return o, nil
}

type fakeClinics struct {
	byID  map[string]clinics.Clinic
	links map[string]bool // clinicID+"/"+petID
}

func (f fakeClinics) GetByID(ctx context.Context, id string) (clinics.Clinic, error) {
	c, ok := f.byID[id]
	if !ok {
		return clinics.Clinic{}, apperr.NotFound("Clinic %s not found", id)
	}
	return c, nil
}

func (f fakeClinics) Attends(ctx context.Context, clinicID, petID string) (bool, error) {
	return f.links[clinicID+"/"+petID], nil
}

type fakeVets map[string]vets.Vet

func (f fakeVets) GetByID(ctx context.Context, id string) (vets.Vet, error) {
	v, ok := f[id]
	if !ok {
		return vets.Vet{}, apperr.NotFound("Vet %s not found", id)
	}
	return v, nil
}

func newAccess() *Access {
	return NewAccess(
		fakeOwners{"pet-1": "owner-1", "pet-2": "owner-2"},
		fakeClinics{
			byID: map[string]clinics.Clinic{
				"clinic-1": {ID: "clinic-1", Name: "Clínica Centro"},
				"clinic-2": {ID: "clinic-2", Name: "Clínica Norte"},
			},
			links: map[string]bool{"clinic-1/pet-1": true},
		},
		fakeVets{
			"vet-1": {ID: "vet-1", ClinicID: "clinic-1", Name: "Dr. Silva"},
			"vet-2": {ID: "vet-2", ClinicID: "clinic-2", Name: "Dra. Costa"},
			"vet-3": {ID: "vet-3", ClinicID: "gone", Name: "Dr. Nadie"},
		},
	)
}

func TestAuthorize(t *testing.T) {
	a := newAccess()
	ctx := context.Background()

	cases := []struct {
		name    string
		pet     string
		claims  auth.Claims
		wantErr error
		want    Actor
	}{
		{
			name:   "owner",
			pet:    "pet-1",
			claims: auth.Claims{Subject: "owner-1", Name: "Ana", Role: auth.RoleUser},
			want:   Actor{Type: ActorTypeUser, ID: "owner-1", Name: "Ana"},
		},
		{
			name:    "other user",
			pet:     "pet-1",
			claims:  auth.Claims{Subject: "owner-2", Role: auth.RoleUser},
			wantErr: apperr.ErrForbidden,
		},
		{
			name:   "linked clinic",
			pet:    "pet-1",
			claims: auth.Claims{Subject: "clinic-1", Role: auth.RoleClinic},
			want:   Actor{Type: ActorTypeClinic, ID: "clinic-1", Name: "Clínica Centro", ClinicName: "Clínica Centro"},
		},
		{
			name:    "unlinked clinic",
			pet:     "pet-1",
			claims:  auth.Claims{Subject: "clinic-2", Role: auth.RoleClinic},
			wantErr: apperr.ErrForbidden,
		},
		{
			name:   "vet of linked clinic",
			pet:    "pet-1",
			claims: auth.Claims{Subject: "vet-1", Role: auth.RoleVet},
			want:   Actor{Type: ActorTypeVet, ID: "vet-1", Name: "Dr. Silva", ClinicName: "Clínica Centro"},
		},
		{
			name:    "vet of other clinic",
			pet:     "pet-1",
			claims:  auth.Claims{Subject: "vet-2", Role: auth.RoleVet},
			wantErr: apperr.ErrForbidden,
		},
		{
			name:    "vet whose clinic is gone",
			pet:     "pet-1",
			claims:  auth.Claims{Subject: "vet-3", Role: auth.RoleVet},
			wantErr: apperr.ErrForbidden,
		},
		{
			name:    "unknown role",
			pet:     "pet-1",
			claims:  auth.Claims{Subject: "owner-1", Role: "admin"},
			wantErr: apperr.ErrForbidden,
		},
		{
			name:    "missing pet",
			pet:     "pet-9",
			claims:  auth.Claims{Subject: "owner-1", Role: auth.RoleUser},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:    "no subject",
			pet:     "pet-1",
			claims:  auth.Claims{Role: auth.RoleUser},
			wantErr: apperr.ErrUnauthorized,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := a.Authorize(ctx, tc.pet, tc.claims)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}
