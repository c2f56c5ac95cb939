package pets

import "context"

// OwnerOf expone el ownerUserID de una mascota activa.
// La usa timeline para decidir permisos sin cargar el perfil completo en el handler.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerUserID, nil
}
