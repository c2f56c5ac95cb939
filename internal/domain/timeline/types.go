package timeline

type ItemType string

const (
	ItemTypeConsultation   ItemType = "CONSULTATION"
	ItemTypeVaccine        ItemType = "VACCINE"
	ItemTypeExam           ItemType = "EXAM"
	ItemTypeSurgery        ItemType = "SURGERY"
	ItemTypeMedication     ItemType = "MEDICATION"
	ItemTypeDeworming      ItemType = "DEWORMING"
	ItemTypeFleaTreatment  ItemType = "FLEA_TREATMENT"
	ItemTypeGrooming       ItemType = "GROOMING"
	ItemTypeWeightRecorded ItemType = "WEIGHT_RECORDED"
	ItemTypeNote           ItemType = "NOTE"
)

var knownTypes = map[ItemType]struct{}{
	ItemTypeConsultation:   {},
	ItemTypeVaccine:        {},
	ItemTypeExam:           {},
	ItemTypeSurgery:        {},
	ItemTypeMedication:     {},
	ItemTypeDeworming:      {},
	ItemTypeFleaTreatment:  {},
	ItemTypeGrooming:       {},
	ItemTypeWeightRecorded: {},
	ItemTypeNote:           {},
}

func (t ItemType) Valid() bool {
	_, ok := knownTypes[t]
	return ok
}

type ActorType string

const (
	ActorTypeUser   ActorType = "user"
	ActorTypeClinic ActorType = "clinic"
	ActorTypeVet    ActorType = "vet"
)

// Tipos de evento publicados en el bus.
const (
	EventItemRecorded    = "timeline.item_recorded"
	EventItemDeactivated = "timeline.item_deactivated"
)
