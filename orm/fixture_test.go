package orm

import (
	"database/sql"

	"github.com/fyerfyer/fyer-typedsql/orm/backend"
	"github.com/fyerfyer/fyer-typedsql/orm/codec"
	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

type usersTable struct{}
type postsTable struct{}
type commentsTable struct{}

var (
	users          = NewTable[usersTable]("users")
	usersID        = NewColumn[types.Integer](users, "id")
	usersName      = NewColumn[types.VarChar](users, "name")
	usersHairColor = NewColumn[types.Nullable[types.VarChar]](users, "hair_color")

	posts       = NewTable[postsTable]("posts")
	postsID     = NewColumn[types.Integer](posts, "id")
	postsUserID = NewColumn[types.Integer](posts, "user_id")
	postsTitle  = NewColumn[types.VarChar](posts, "title")
	postsBody   = NewNoSelectColumn[types.Text](posts, "body")

	comments       = NewTable[commentsTable]("comments")
	commentsID     = NewColumn[types.Integer](comments, "id")
	commentsPostID = NewColumn[types.Integer](comments, "post_id")
	commentsBody   = NewColumn[types.Nullable[types.Text]](comments, "body")

	postsToUsers    = ForeignKey(postsUserID, usersID)
	commentsToPosts = ForeignKey(commentsPostID, postsID)
)

type user struct {
	ID        int32
	Name      string
	HairColor sql.Null[string]
}

var userRecord = Record(users,
	FieldOf(usersID, codec.Integer, func(u *user, v int32) { u.ID = v }),
	FieldOf(usersName, codec.VarChar, func(u *user, v string) { u.Name = v }),
	FieldOf(usersHairColor, codec.Optional(codec.VarChar), func(u *user, v sql.Null[string]) { u.HairColor = v }),
)

var pg = backend.NewPostgres()

// args 参数的 Tag:value 形式
func args(q *Query) []string {
	res := make([]string, 0, len(q.Args))
	for _, a := range q.Args {
		res = append(res, a.String())
	}
	return res
}
