package user

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	Settings    Settings
}

type Settings struct {
	// Timezone is the IANA zone name stored with the profile. It is round-tripped
	// through the settings endpoints for clients; the server itself renders all
	// occurrence times in its local zone.
	Timezone string
}
