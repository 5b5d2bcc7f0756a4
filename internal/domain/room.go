package domain

// RoomCapacity is the number of peers that can share a room.
const RoomCapacity = 2

// RoomID is supplied by the joining client, never generated by the server.
type RoomID string
