package identifier

import (
	"encoding/json"
	"fmt"

	"github.com/jpickens/crosscheck/internal/model"
)

// Decode decodes a serialized identifier by its type discriminator. Unknown
// or missing discriminators are a hard error; the decoder never guesses.
func Decode(data []byte) (Identifier, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidSerializationFormat, err)
	}
	switch Kind(probe.Type) {
	case KindFireNumber:
		v := &FireNumber{}
		return v, json.Unmarshal(data, v)
	case KindParcelID:
		v := &ParcelID{}
		return v, json.Unmarshal(data, v)
	case KindPOBox:
		v := &POBox{}
		return v, json.Unmarshal(data, v)
	case KindIndividualName:
		v := &IndividualName{}
		return v, json.Unmarshal(data, v)
	case KindHouseholdName:
		v := &HouseholdName{}
		return v, json.Unmarshal(data, v)
	case KindAddress:
		v := &Address{}
		return v, json.Unmarshal(data, v)
	default:
		return nil, fmt.Errorf("%w: unknown identifier type %q", model.ErrInvalidSerializationFormat, probe.Type)
	}
}

type simpleJSON struct {
	Type    string         `json:"type"`
	Aliased *model.Aliased `json:"aliased"`
}

func decodeSimple(data []byte, want Kind) (*model.Aliased, error) {
	var in simpleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidSerializationFormat, err)
	}
	if err := model.CheckType(in.Type, string(want)); err != nil {
		return nil, err
	}
	if in.Aliased == nil {
		return nil, fmt.Errorf("%w: %s missing aliased value", model.ErrInvalidSerializationFormat, want)
	}
	return in.Aliased, nil
}

// MarshalJSON implements json.Marshaler.
func (f *FireNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(simpleJSON{Type: string(KindFireNumber), Aliased: f.aliased})
}

// UnmarshalJSON implements json.Unmarshaler. The numeric value is
// re-validated from the decoded primary.
func (f *FireNumber) UnmarshalJSON(data []byte) error {
	al, err := decodeSimple(data, KindFireNumber)
	if err != nil {
		return err
	}
	n, err := parseFireNumber(al.Primary().Value())
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidSerializationFormat, err)
	}
	f.aliased = al
	f.number = n
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *ParcelID) MarshalJSON() ([]byte, error) {
	return json.Marshal(simpleJSON{Type: string(KindParcelID), Aliased: p.aliased})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ParcelID) UnmarshalJSON(data []byte) error {
	al, err := decodeSimple(data, KindParcelID)
	if err != nil {
		return err
	}
	p.aliased = al
	return nil
}

// MarshalJSON implements json.Marshaler.
func (b *POBox) MarshalJSON() ([]byte, error) {
	return json.Marshal(simpleJSON{Type: string(KindPOBox), Aliased: b.aliased})
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *POBox) UnmarshalJSON(data []byte) error {
	al, err := decodeSimple(data, KindPOBox)
	if err != nil {
		return err
	}
	b.aliased = al
	return nil
}

type individualNameJSON struct {
	Type    string         `json:"type"`
	Title   string         `json:"title,omitempty"`
	First   string         `json:"first,omitempty"`
	Middle  string         `json:"middle,omitempty"`
	Last    string         `json:"last,omitempty"`
	Suffix  string         `json:"suffix,omitempty"`
	Aliased *model.Aliased `json:"aliased"`
}

// MarshalJSON implements json.Marshaler.
func (n *IndividualName) MarshalJSON() ([]byte, error) {
	return json.Marshal(individualNameJSON{
		Type:    string(KindIndividualName),
		Title:   n.Title,
		First:   n.First,
		Middle:  n.Middle,
		Last:    n.Last,
		Suffix:  n.Suffix,
		Aliased: n.aliased,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *IndividualName) UnmarshalJSON(data []byte) error {
	var in individualNameJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidSerializationFormat, err)
	}
	if err := model.CheckType(in.Type, string(KindIndividualName)); err != nil {
		return err
	}
	if in.Aliased == nil {
		return fmt.Errorf("%w: individual name missing aliased value", model.ErrInvalidSerializationFormat)
	}
	n.Title, n.First, n.Middle, n.Last, n.Suffix = in.Title, in.First, in.Middle, in.Last, in.Suffix
	n.aliased = in.Aliased
	return nil
}

type householdNameJSON struct {
	Type    string            `json:"type"`
	Aliased *model.Aliased    `json:"aliased"`
	Members []*IndividualName `json:"members,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (h *HouseholdName) MarshalJSON() ([]byte, error) {
	return json.Marshal(householdNameJSON{
		Type:    string(KindHouseholdName),
		Aliased: h.aliased,
		Members: h.members,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *HouseholdName) UnmarshalJSON(data []byte) error {
	var in householdNameJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidSerializationFormat, err)
	}
	if err := model.CheckType(in.Type, string(KindHouseholdName)); err != nil {
		return err
	}
	if in.Aliased == nil {
		return fmt.Errorf("%w: household name missing aliased value", model.ErrInvalidSerializationFormat)
	}
	h.aliased = in.Aliased
	h.members = in.Members
	return nil
}

type addressJSON struct {
	Type       string         `json:"type"`
	Parts      AddressParts   `json:"parts"`
	Aliased    *model.Aliased `json:"aliased"`
	FireNumber *FireNumber    `json:"fire_number,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (a *Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Type:       string(KindAddress),
		Parts:      a.parts,
		Aliased:    a.aliased,
		FireNumber: a.fireNumber,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The Block Island flag is
// re-derived from the parts; the synthesized fire number round-trips as-is
// so its provenance is preserved exactly.
func (a *Address) UnmarshalJSON(data []byte) error {
	var in addressJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidSerializationFormat, err)
	}
	if err := model.CheckType(in.Type, string(KindAddress)); err != nil {
		return err
	}
	if in.Aliased == nil {
		return fmt.Errorf("%w: address missing aliased value", model.ErrInvalidSerializationFormat)
	}
	a.parts = in.Parts
	a.aliased = in.Aliased
	a.fireNumber = in.FireNumber
	a.blockIsland = blockIslandCities[normalize(in.Parts.City)]
	return nil
}

const typeEntity = "entity"

type entityJSON struct {
	Type   string         `json:"type"`
	Key    string         `json:"key"`
	Source model.SourceID `json:"source"`
	Kind   EntityKind     `json:"kind"`

	Name               json.RawMessage `json:"name,omitempty"`
	Address            *Address        `json:"address,omitempty"`
	SecondaryAddresses []*Address      `json:"secondary_addresses,omitempty"`
	FireNumber         *FireNumber     `json:"fire_number,omitempty"`
	ParcelID           *ParcelID       `json:"parcel_id,omitempty"`
	POBox              *POBox          `json:"po_box,omitempty"`

	InHousehold     bool   `json:"in_household"`
	HouseholdID     string `json:"household_id,omitempty"`
	HeadOfHousehold bool   `json:"head_of_household"`

	AssessedValue   *float64 `json:"assessed_value,omitempty"`
	UserCode        *string  `json:"user_code,omitempty"`
	SubNeighborhood *string  `json:"sub_neighborhood,omitempty"`
	RecordDate      string   `json:"record_date,omitempty"`
	ConstructedFrom []string `json:"constructed_from,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e *Entity) MarshalJSON() ([]byte, error) {
	out := entityJSON{
		Type:               typeEntity,
		Key:                e.Key,
		Source:             e.Source,
		Kind:               e.Kind,
		Address:            e.Address,
		SecondaryAddresses: e.SecondaryAddresses,
		FireNumber:         e.FireNumber,
		ParcelID:           e.ParcelID,
		POBox:              e.POBox,
		InHousehold:        e.InHousehold,
		HouseholdID:        e.HouseholdID,
		HeadOfHousehold:    e.HeadOfHousehold,
		AssessedValue:      e.AssessedValue,
		UserCode:           e.UserCode,
		SubNeighborhood:    e.SubNeighborhood,
		RecordDate:         e.RecordDate,
		ConstructedFrom:    e.ConstructedFrom,
	}
	if e.Name != nil {
		raw, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		out.Name = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var in entityJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidSerializationFormat, err)
	}
	if err := model.CheckType(in.Type, typeEntity); err != nil {
		return err
	}
	e.Key = in.Key
	e.Source = in.Source
	e.Kind = in.Kind
	e.Address = in.Address
	e.SecondaryAddresses = in.SecondaryAddresses
	e.FireNumber = in.FireNumber
	e.ParcelID = in.ParcelID
	e.POBox = in.POBox
	e.InHousehold = in.InHousehold
	e.HouseholdID = in.HouseholdID
	e.HeadOfHousehold = in.HeadOfHousehold
	e.AssessedValue = in.AssessedValue
	e.UserCode = in.UserCode
	e.SubNeighborhood = in.SubNeighborhood
	e.RecordDate = in.RecordDate
	e.ConstructedFrom = in.ConstructedFrom
	if len(in.Name) > 0 {
		name, err := Decode(in.Name)
		if err != nil {
			return err
		}
		e.Name = name
	}
	return nil
}
