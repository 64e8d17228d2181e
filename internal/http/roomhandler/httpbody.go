package roomhandler

type RoomInfoResponse struct {
	RoomID      string   `json:"room_id"     example:"123456"`
	Users       []string `json:"users"`
	HasCode     bool     `json:"has_code"`
	HasLanguage bool     `json:"has_language"`
	HasTheme    bool     `json:"has_theme"`
} // @name RoomInfoResponse

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse
