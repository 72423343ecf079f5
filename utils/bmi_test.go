package utils

import "testing"

func TestCalculateBMI(t *testing.T) {
	cases := []struct {
		name     string
		heightCm float64
		weightKg float64
		want     float64
		wantErr  bool
	}{
		{"normal", 170, 65, 22.5, false},
		{"rounded to one decimal", 180, 81.5, 25.2, false},
		{"zero height", 0, 70, 0, true},
		{"zero weight", 170, 0, 0, true},
		{"implausible height", 300, 70, 0, true},
		{"implausible weight", 170, 5, 0, true},
	}
	for _, c := range cases {
		got, err := CalculateBMI(c.heightCm, c.weightKg)
		if c.wantErr {
			if err == nil {
				t.Errorf("%s: expected an error, got %v", c.name, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", c.name, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: CalculateBMI = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestBMICategory(t *testing.T) {
	cases := []struct {
		bmi  float64
		want string
	}{
		{17.0, "Bajo peso"},
		{18.5, "Peso normal"},
		{24.9, "Peso normal"},
		{25.0, "Sobrepeso"},
		{30.0, "Obesidad grado I"},
		{35.0, "Obesidad grado II"},
		{40.0, "Obesidad grado III"},
	}
	for _, c := range cases {
		if got := BMICategory(c.bmi); got != c.want {
			t.Errorf("BMICategory(%v) = %q, want %q", c.bmi, got, c.want)
		}
	}
}
