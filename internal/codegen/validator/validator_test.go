package validator

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/klutter-gen/internal/codegen/common"
	"github.com/Alia5/klutter-gen/internal/codegen/meta"
)

const channel = "com.example.klutter"

func stringRef() meta.TypeRef { return meta.TypeRef{Name: "String", Raw: "String"} }

func customRef(name string) meta.TypeRef {
	return meta.TypeRef{Name: name, Custom: true, Raw: name}
}

func method(command string, ret meta.TypeRef, line int) meta.Method {
	return meta.Method{
		Command:        command,
		CallExpression: "Greeting()." + command + "()",
		ReturnType:     ret,
		Owner:          "Greeting",
		Function:       command,
		Pos:            meta.Pos{File: "Greeting.kt", Line: line, Column: 5},
	}
}

func validMetadata() *meta.Metadata {
	return &meta.Metadata{
		ChannelName: channel,
		Controllers: []meta.Controller{
			&meta.SimpleController{
				Name:        "Greeting",
				ChannelName: channel,
				Methods: []meta.Method{
					method("greeting", stringRef(), 3),
					method("profile", customRef("Profile"), 6),
				},
			},
			&meta.BroadcastController{
				Name:        "Counter",
				ChannelName: channel + "/channel/counter",
				Response:    meta.TypeRef{Name: "Int", Raw: "Int"},
				Pos:         meta.Pos{File: "Counter.kt", Line: 2, Column: 7},
			},
		},
		Messages: []meta.Message{
			{
				Name: "Profile",
				Fields: []meta.Field{
					{Name: "name", Type: stringRef()},
					{Name: "mood", Type: meta.TypeRef{Name: "Mood", Custom: true, Nullable: true, Raw: "Mood?"}},
					{Name: "tags", Type: meta.TypeRef{Name: "String", List: true, Raw: "List<String>"}},
				},
				Pos: meta.Pos{File: "Profile.kt", Line: 1, Column: 7},
			},
		},
		Enums: []meta.Enum{
			{
				Name: "Mood",
				Members: []meta.EnumMember{
					{Name: "HAPPY", WireValue: "happy"},
					{Name: "MY_VALUE", WireValue: "MY_VALUE"},
				},
				Pos: meta.Pos{File: "Profile.kt", Line: 9, Column: 12},
			},
		},
	}
}

func errorsOf[T error](res *Result) []T {
	var out []T
	for _, d := range res.Invalid {
		var target T
		if errors.As(d.Err, &target) {
			out = append(out, target)
		}
	}
	return out
}

func TestValidateAcceptsConsistentMetadata(t *testing.T) {
	md := validMetadata()
	res := Validate(slog.Default(), md)

	require.True(t, res.OK(), "unexpected diagnostics: %v", res.Invalid)
	assert.Equal(t, md.Controllers, res.Valid.Controllers)
	assert.Equal(t, md.Messages, res.Valid.Messages)
	assert.Equal(t, md.Enums, res.Valid.Enums)
	assert.Equal(t, channel, res.Valid.ChannelName)
}

func TestValidateUnresolvedReturnType(t *testing.T) {
	md := validMetadata()
	greeting := md.Controllers[0].(*meta.SimpleController)
	greeting.Methods = append(greeting.Methods, method("missing", customRef("Nowhere"), 9))

	res := Validate(slog.Default(), md)

	require.False(t, res.OK())
	unresolved := errorsOf[*UnresolvedTypeError](res)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "Nowhere", unresolved[0].Type)
	assert.Contains(t, unresolved[0].Error(), `unresolved type "Nowhere"`)
	assert.Len(t, res.Valid.Controllers, 1, "only the broadcast controller stays valid")
	assert.Len(t, res.Valid.Messages, 1)
}

func TestValidateUnresolvedFieldAndBroadcast(t *testing.T) {
	md := validMetadata()
	md.Enums = nil
	md.Controllers[1].(*meta.BroadcastController).Response = customRef("Tick")

	res := Validate(slog.Default(), md)

	unresolved := errorsOf[*UnresolvedTypeError](res)
	require.Len(t, unresolved, 2)
	subjects := []string{unresolved[0].Subject, unresolved[1].Subject}
	assert.ElementsMatch(t, []string{"field Profile.mood", "broadcast controller Counter"}, subjects)
	assert.Empty(t, res.Valid.Messages)
	assert.Len(t, res.Valid.Controllers, 1)
}

func TestValidateDuplicateCommandsRejectsBoth(t *testing.T) {
	md := validMetadata()
	md.Controllers = append(md.Controllers, &meta.SimpleController{
		Name:        "Other",
		ChannelName: channel,
		Methods:     []meta.Method{method("greeting", stringRef(), 20)},
	})

	res := Validate(slog.Default(), md)

	dups := errorsOf[*DuplicateCommandError](res)
	require.Len(t, dups, 2)
	for _, d := range dups {
		assert.Equal(t, "greeting", d.Command)
		assert.Equal(t, channel, d.Channel)
		require.Len(t, d.Others, 1)
	}
	for _, c := range res.Valid.SimpleControllers() {
		assert.NotEqual(t, "Greeting", c.Name)
		assert.NotEqual(t, "Other", c.Name)
	}
}

func TestValidateSameCommandOnDifferentChannels(t *testing.T) {
	md := validMetadata()
	md.Controllers = append(md.Controllers, &meta.SimpleController{
		Name:        "Settings",
		ChannelName: channel + "/channel/settings",
		Annotated:   true,
		Methods:     []meta.Method{method("greeting", stringRef(), 30)},
	})

	res := Validate(slog.Default(), md)

	assert.Empty(t, errorsOf[*DuplicateCommandError](res))
	collisions := errorsOf[*NameCollisionError](res)
	require.Len(t, collisions, 2)
	assert.Equal(t, "greeting", collisions[0].Name)
}

func TestValidateBroadcastGetterCollision(t *testing.T) {
	md := validMetadata()
	greeting := md.Controllers[0].(*meta.SimpleController)
	greeting.Methods = append(greeting.Methods, method("counter", stringRef(), 12))

	res := Validate(slog.Default(), md)

	collisions := errorsOf[*NameCollisionError](res)
	require.Len(t, collisions, 2)
	assert.Equal(t, "counter", collisions[0].Name)
	assert.Empty(t, res.Valid.Controllers)
}

func TestValidateListOfNullable(t *testing.T) {
	md := validMetadata()
	md.Messages[0].Fields = append(md.Messages[0].Fields, meta.Field{
		Name: "scores",
		Type: meta.TypeRef{Name: "Int", List: true, ElementNullable: true, Raw: "List<Int?>"},
	})

	res := Validate(slog.Default(), md)

	lists := errorsOf[*InvalidListNullabilityError](res)
	require.Len(t, lists, 1)
	assert.Equal(t, "List<Int?>", lists[0].Type)
	assert.Contains(t, lists[0].Error(), "lists may not contain null values")
	assert.Empty(t, res.Valid.Messages)
}

func TestValidateDuplicateTypes(t *testing.T) {
	md := validMetadata()
	md.Enums = append(md.Enums, meta.Enum{
		Name:    "Profile",
		Members: []meta.EnumMember{{Name: "A", WireValue: "A"}},
		Pos:     meta.Pos{File: "Other.kt", Line: 1, Column: 12},
	})

	res := Validate(slog.Default(), md)

	dups := errorsOf[*DuplicateTypeError](res)
	require.Len(t, dups, 2)
	assert.Equal(t, "Profile", dups[0].Name)
	assert.Empty(t, res.Valid.Messages)
	require.Len(t, res.Valid.Enums, 1)
	assert.Equal(t, "Mood", res.Valid.Enums[0].Name)
}

func TestValidateEnumMembers(t *testing.T) {
	tests := []struct {
		name    string
		members []meta.EnumMember
		wantErr string
	}{
		{
			name:    "reserved none",
			members: []meta.EnumMember{{Name: "NONE", WireValue: "none"}},
			wantErr: `generated name "none" collides with a built-in member of enum Mood`,
		},
		{
			name:    "reserved values",
			members: []meta.EnumMember{{Name: "VALUES", WireValue: "values"}},
			wantErr: `generated name "values" collides`,
		},
		{
			name: "same camel case",
			members: []meta.EnumMember{
				{Name: "MY_VALUE", WireValue: "a"},
				{Name: "MyValue", WireValue: "b"},
			},
			wantErr: "collides with enum member Mood.MY_VALUE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := validMetadata()
			md.Enums[0].Members = tt.members

			res := Validate(slog.Default(), md)

			require.Len(t, res.Invalid, 1)
			assert.Contains(t, res.Invalid[0].Err.Error(), tt.wantErr)
			assert.Empty(t, res.Valid.Enums)
		})
	}
}

func TestValidateInvalidCommandIdentifier(t *testing.T) {
	md := validMetadata()
	greeting := md.Controllers[0].(*meta.SimpleController)
	greeting.Methods[0].Command = "do-foo"

	res := Validate(slog.Default(), md)

	ids := errorsOf[*InvalidIdentifierError](res)
	require.Len(t, ids, 1)
	assert.Equal(t, "do-foo", ids[0].Name)
	assert.Equal(t, `command "do-foo" is not a valid identifier`, ids[0].Error())
}

func TestValidateReservedTypeName(t *testing.T) {
	md := validMetadata()
	md.Messages = append(md.Messages, meta.Message{Name: "AdapterResponse"})

	res := Validate(slog.Default(), md)

	collisions := errorsOf[*NameCollisionError](res)
	require.Len(t, collisions, 1)
	assert.Equal(t, "AdapterResponse", collisions[0].Name)
}

func TestValidateGeneratedClassNames(t *testing.T) {
	md := validMetadata()
	md.Messages = append(md.Messages, meta.Message{Name: "Adapter", Pos: meta.Pos{File: "Adapter.kt", Line: 1, Column: 7}})
	md.Enums = append(md.Enums, meta.Enum{Name: "CounterSubscriber", Pos: meta.Pos{File: "Counter.kt", Line: 9, Column: 12}})

	res := Validate(slog.Default(), md)

	collisions := errorsOf[*NameCollisionError](res)
	require.Len(t, collisions, 2)
	assert.Equal(t, "Adapter", collisions[0].Name)
	assert.Equal(t, "the generated adapter class", collisions[0].With)
	assert.Equal(t, "CounterSubscriber", collisions[1].Name)
	assert.Equal(t, "the generated subscriber widget of Counter", collisions[1].With)
	assert.Len(t, res.Valid.Messages, 1)
	assert.Len(t, res.Valid.Enums, 1)
}

func TestValidateForCustomAdapterClass(t *testing.T) {
	md := validMetadata()
	md.Messages = append(md.Messages, meta.Message{Name: "Adapter"})

	res := ValidateFor(slog.Default(), md, common.Target{DartClass: "Bridge"})
	assert.True(t, res.OK())

	md.Messages = append(md.Messages, meta.Message{Name: "Bridge"})
	res = ValidateFor(slog.Default(), md, common.Target{DartClass: "Bridge"})
	collisions := errorsOf[*NameCollisionError](res)
	require.Len(t, collisions, 1)
	assert.Equal(t, "Bridge", collisions[0].Name)
}

func TestValidateDiagnosticsAreSortedByPosition(t *testing.T) {
	md := validMetadata()
	md.Enums = nil
	greeting := md.Controllers[0].(*meta.SimpleController)
	greeting.Methods = append(greeting.Methods, method("later", customRef("Nowhere"), 40))

	res := Validate(slog.Default(), md)

	require.Len(t, res.Invalid, 2)
	assert.Equal(t, "Greeting.kt", res.Invalid[0].Pos.File)
	assert.Equal(t, "Profile.kt", res.Invalid[1].Pos.File)
	assert.Contains(t, res.Invalid[0].String(), "Greeting.kt:40:5: command later (Greeting.later)")
}
