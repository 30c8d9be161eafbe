package types

type contextKey string

// ClientIDKey holds the id of the client whose session was validated.
const ClientIDKey contextKey = "client_id"
