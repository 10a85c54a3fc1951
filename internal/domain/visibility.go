package domain

// Visibility is the derived guest-facing state of a property. It is computed
// on every read and never persisted, so stored flags cannot drift from what
// guests actually see.
type Visibility struct {
	Visible      bool
	RoomTypes    []RoomType
	NightlyPrice float64
}

// EffectiveVisibility derives whether a property and its room types are
// offered to guests. A property is visible only when the host has listed it
// AND staff have approved it. Room types are filtered to those the host has
// individually listed; a visible property with no room types is still
// bookable whole, priced at the property level.
func EffectiveVisibility(p Property) Visibility {
	visible := p.IsListed && p.Approval.Status == StatusApproved
	if !visible {
		return Visibility{}
	}

	var listed []RoomType
	for _, rt := range p.RoomTypes {
		if rt.ListStatus == ListStatusListed {
			listed = append(listed, rt)
		}
	}

	price := p.Price
	for i, rt := range listed {
		if i == 0 || rt.PricePerNight < price {
			price = rt.PricePerNight
		}
	}

	return Visibility{
		Visible:      true,
		RoomTypes:    listed,
		NightlyPrice: price,
	}
}
