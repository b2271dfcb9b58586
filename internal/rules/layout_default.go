package rules

// span is an inclusive horizontal run of cells on one row.
type span struct {
	y, x0, x1 int
}

func cells(spans ...span) []Cell {
	var out []Cell
	for _, s := range spans {
		for x := s.x0; x <= s.x1; x++ {
			out = append(out, Cell{X: x, Y: s.y})
		}
	}
	return out
}

// DefaultLayout is the printed Covenants board. Dawn and dusk touch on rows
// 28 and 29; the shared cells belong to dawn.
func DefaultLayout() *Layout {
	return &Layout{
		Name: "covenants",
		Territories: []Territory{
			{ID: 1, Name: "dawn", PointValue: 1, Cells: cells(
				span{22, 5, 7}, span{23, 4, 9}, span{24, 4, 11}, span{25, 5, 13}, span{26, 5, 15},
				span{27, 6, 15}, span{28, 7, 15}, span{29, 10, 15}, span{30, 13, 14},
			)},
			{ID: 2, Name: "territory-2", PointValue: 1, Cells: cells(
				span{12, 3, 5}, span{13, 2, 6}, span{14, 2, 7}, span{15, 2, 7},
				span{16, 2, 7}, span{17, 2, 6}, span{18, 3, 5},
			)},
			{ID: 3, Name: "territory-3", PointValue: 1, Cells: cells(
				span{4, 7, 9}, span{5, 6, 10}, span{6, 5, 11}, span{7, 5, 11},
				span{8, 5, 11}, span{9, 6, 10}, span{10, 7, 9},
			)},
			{ID: 4, Name: "territory-4", PointValue: 1, Cells: cells(
				span{4, 22, 24}, span{5, 21, 25}, span{6, 20, 26}, span{7, 20, 26},
				span{8, 20, 26}, span{9, 21, 25}, span{10, 22, 24},
			)},
			{ID: 5, Name: "territory-5", PointValue: 1, Cells: cells(
				span{12, 26, 28}, span{13, 25, 29}, span{14, 24, 29}, span{15, 24, 29},
				span{16, 24, 29}, span{17, 25, 29}, span{18, 26, 28},
			)},
			{ID: 6, Name: "territory-6", PointValue: 2, Cells: cells(
				span{20, 24, 26}, span{21, 23, 27}, span{22, 22, 27}, span{23, 22, 27},
				span{24, 22, 27}, span{25, 23, 26}, span{26, 24, 25},
			)},
			{ID: 7, Name: "dusk", PointValue: 3, Cells: cells(
				span{26, 17, 19}, span{27, 16, 20}, span{28, 16, 21}, span{29, 16, 21},
				span{30, 16, 20}, span{31, 17, 19},
			)},
		},
	}
}

// DefaultMap is the Map of DefaultLayout.
func DefaultMap() *Map {
	m, err := NewMap(DefaultLayout())
	if err != nil {
		panic(err)
	}
	return m
}
