package entity

import "fmt"

// Fixed service categories offered on the platform.
var Categories = []string{
	"Plomería",
	"Electricidad",
	"Limpieza",
	"Jardinería",
	"Carpintería",
	"Pintura",
	"Mudanza",
	"Tecnología",
	"Construcción",
	"Mecánica",
	"Albañilería",
	"Costura",
	"Cocina/Chef",
	"Cuidado de niños",
	"Cuidado de adultos mayores",
	"Mascotas",
	"Fotografía",
	"Diseño",
	"Otros",
}

// Service locations: Managua neighborhoods plus the other departments.
var Locations = []string{
	"Managua Centro",
	"Villa Fontana",
	"Los Robles",
	"Altamira",
	"Bolonia",
	"Linda Vista",
	"Las Colinas",
	"Carretera Masaya",
	"Ciudad Jardín",
	"León",
	"Granada",
	"Masaya",
	"Matagalpa",
	"Estelí",
	"Chinandega",
	"Jinotega",
	"Rivas",
	"Carazo",
	"Boaco",
	"Chontales",
	"Madriz",
	"Nueva Segovia",
	"Río San Juan",
	"RAAN",
	"RAAS",
}

const (
	CurrencySymbol = "C$"
	CurrencyCode   = "NIO"
)

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidLocation reports whether l is one of the fixed locations.
func ValidLocation(l string) bool {
	for _, v := range Locations {
		if v == l {
			return true
		}
	}
	return false
}

// FormatPrice renders an amount in córdobas, e.g. "C$ 15000".
func FormatPrice(price int64) string {
	return fmt.Sprintf("%s %d", CurrencySymbol, price)
}
