package models

// MultipletGroup summarises one cluster of lines found by the analyzer
type MultipletGroup struct {
	ID           int          `json:"group_id" doc:"Group index, downfield first"`
	Label        string       `json:"label" doc:"Assignment label"`
	CenterShift  float64      `json:"center_shift" doc:"Midpoint of the group's shift extremes in ppm"`
	MinShift     float64      `json:"min_shift" doc:"Upfield extreme in ppm"`
	MaxShift     float64      `json:"max_shift" doc:"Downfield extreme in ppm"`
	Multiplicity Multiplicity `json:"multiplicity" doc:"Inferred multiplicity"`
	Couplings    []float64    `json:"coupling_constants" doc:"Inferred J values in Hz"`
	Intensity    float64      `json:"intensity" doc:"Summed intensity of the members"`
	Integration  float64      `json:"integration" doc:"Estimated nucleus count"`
	Size         int          `json:"group_size" doc:"Number of member lines"`
	Members      []int        `json:"members" doc:"Indices of the member lines in the input list"`
	CenterMember int          `json:"center_member" doc:"Index of the member nearest the center"`
}
