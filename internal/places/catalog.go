package places

import "github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"

// The seed catalog covers the central Delhi demo area. Coordinates and
// ratings match the seed data the admin panel expects.
func defaultCatalog() map[Kind][]Place {
	return map[Kind][]Place{
		KindFuel: {
			{
				ID:        "fuel-1",
				Name:      "Shell Fuel Station",
				Kind:      KindFuel,
				Address:   "123 Main Street, Downtown",
				Position:  geo.Coordinate{Latitude: 28.6139, Longitude: 77.2090},
				Rating:    4.2,
				Phone:     "+91-9876543210",
				OpenHours: "24/7",
			},
			{
				ID:        "fuel-2",
				Name:      "HP Petrol Pump",
				Kind:      KindFuel,
				Address:   "456 Park Avenue, Central",
				Position:  geo.Coordinate{Latitude: 28.6129, Longitude: 77.2080},
				Rating:    4.0,
				Phone:     "+91-9876543211",
				OpenHours: "6:00 AM - 10:00 PM",
			},
			{
				ID:        "fuel-3",
				Name:      "Indian Oil Station",
				Kind:      KindFuel,
				Address:   "789 Ring Road, Sector 15",
				Position:  geo.Coordinate{Latitude: 28.6149, Longitude: 77.2100},
				Rating:    4.3,
				Phone:     "+91-9876543212",
				OpenHours: "24/7",
			},
			{
				ID:        "fuel-4",
				Name:      "Bharat Petroleum",
				Kind:      KindFuel,
				Address:   "321 Highway Road, Industrial Area",
				Position:  geo.Coordinate{Latitude: 28.6159, Longitude: 77.2110},
				Rating:    3.9,
				Phone:     "+91-9876543213",
				OpenHours: "5:00 AM - 11:00 PM",
			},
			{
				ID:        "fuel-5",
				Name:      "Reliance Petrol Pump",
				Kind:      KindFuel,
				Address:   "654 Commercial Street, Business District",
				Position:  geo.Coordinate{Latitude: 28.6119, Longitude: 77.2070},
				Rating:    4.1,
				Phone:     "+91-9876543214",
				OpenHours: "24/7",
			},
		},
		KindMechanic: {
			{
				ID:        "mechanic-1",
				Name:      "AutoCare Service Center",
				Kind:      KindMechanic,
				Address:   "111 Service Road, Auto Hub",
				Position:  geo.Coordinate{Latitude: 28.6135, Longitude: 77.2085},
				Rating:    4.4,
				Phone:     "+91-9876543220",
				OpenHours: "9:00 AM - 7:00 PM",
			},
			{
				ID:        "mechanic-2",
				Name:      "Quick Fix Garage",
				Kind:      KindMechanic,
				Address:   "222 Repair Lane, Workshop Area",
				Position:  geo.Coordinate{Latitude: 28.6145, Longitude: 77.2095},
				Rating:    4.1,
				Phone:     "+91-9876543221",
				OpenHours: "8:00 AM - 8:00 PM",
			},
			{
				ID:        "mechanic-3",
				Name:      "Expert Auto Repair",
				Kind:      KindMechanic,
				Address:   "333 Mechanic Street, Service Zone",
				Position:  geo.Coordinate{Latitude: 28.6125, Longitude: 77.2075},
				Rating:    4.5,
				Phone:     "+91-9876543222",
				OpenHours: "9:00 AM - 6:00 PM",
			},
			{
				ID:        "mechanic-4",
				Name:      "City Car Care",
				Kind:      KindMechanic,
				Address:   "444 Auto Plaza, Maintenance Hub",
				Position:  geo.Coordinate{Latitude: 28.6155, Longitude: 77.2105},
				Rating:    4.0,
				Phone:     "+91-9876543223",
				OpenHours: "8:30 AM - 7:30 PM",
			},
		},
	}
}
