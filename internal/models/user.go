package models

type UserDoc struct {
	UserID    int    `json:"userId" bson:"userId"`
	Username  string `json:"username" bson:"username"`
	Role      string `json:"role" bson:"role"`
	CreatedAt string `json:"createdAt" bson:"createdAt"`
}

type User struct {
	UserID   int    `json:"userId"`
	Username string `json:"username"`
}
