package domain

// Member is one membership entry inside a room's ordered list.
// No transport or lifecycle logic here.
type Member struct {
	UserID   UserID `json:"userId"`
	Username string `json:"userName"`
}

// Roster is the outbound snapshot of a room's members.
type Roster struct {
	RoomName  RoomName `json:"roomName"`
	ChatUsers []Member `json:"chatUsers"`
}
