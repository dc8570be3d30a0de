package testing

import (
	"github.com/Alia5/klutter-gen/internal/codegen/common"
	"github.com/Alia5/klutter-gen/internal/codegen/meta"
)

// ExampleChannel is the primary channel of ExampleMetadata.
const ExampleChannel = "com.example.my_plugin"

// ExampleTarget names the plugin rendered from ExampleMetadata.
func ExampleTarget() common.Target {
	return common.Target{
		PluginName:     "my_plugin",
		AndroidPackage: "com.example.my_plugin",
	}
}

// ExampleMetadata returns validated metadata covering every controller
// variant, a message with required and optional fields and an enum with
// serialized names. Channels are already assigned.
func ExampleMetadata() *meta.Metadata {
	str := meta.TypeRef{Name: "String", Raw: "String"}
	myResponse := meta.TypeRef{Name: "MyResponse", Custom: true, Raw: "MyResponse"}
	return &meta.Metadata{
		ChannelName: ExampleChannel,
		Controllers: []meta.Controller{
			&meta.SimpleController{
				Name:    "Greeting",
				Package: "com.example",
				Import:  "com.example.Greeting",
				Methods: []meta.Method{
					{
						Command:        "doFooBar",
						Import:         "com.example.Greeting",
						CallExpression: "Greeting().doFooBar()",
						ReturnType:     str,
						Receiver:       meta.Receiver{Kind: meta.ReceiverClass, Path: "Greeting"},
						Owner:          "Greeting",
						Function:       "doFooBar",
					},
					{
						Command:                 "greetWithContext",
						Import:                  "com.example.Greeting",
						CallExpression:          "Greeting().greet(context)",
						Async:                   true,
						ReturnType:              meta.TypeRef{Name: "String", Nullable: true, Raw: "String?"},
						RequiresPlatformContext: true,
						Receiver:                meta.Receiver{Kind: meta.ReceiverClass, Path: "Greeting"},
						Owner:                   "Greeting",
						Function:                "greet",
					},
				},
				ChannelName: ExampleChannel,
			},
			&meta.SimpleController{
				Name:    "MySimpleController",
				Package: "com.example",
				Import:  "com.example.MySimpleController",
				Methods: []meta.Method{
					{
						Command:        "foo",
						Import:         "com.example.MySimpleController",
						CallExpression: "MySimpleController().foo()",
						ReturnType:     meta.TypeRef{Name: "Int", List: true, Raw: "List<Int>"},
						Receiver:       meta.Receiver{Kind: meta.ReceiverClass, Path: "MySimpleController"},
						Owner:          "MySimpleController",
						Function:       "foo",
					},
					{
						Command:        "getChakka",
						Import:         "com.example.MySimpleController",
						CallExpression: "MySimpleController().chakka()",
						Async:          true,
						ReturnType:     myResponse,
						Receiver:       meta.Receiver{Kind: meta.ReceiverClass, Path: "MySimpleController"},
						Owner:          "MySimpleController",
						Function:       "chakka",
					},
					{
						Command:        "someValues",
						Import:         "com.example.MySimpleController",
						CallExpression: "MySimpleController().someValues()",
						ReturnType:     meta.TypeRef{Name: "SomeValue", List: true, Nullable: true, Custom: true, Raw: "List<SomeValue>?"},
						Receiver:       meta.Receiver{Kind: meta.ReceiverClass, Path: "MySimpleController"},
						Owner:          "MySimpleController",
						Function:       "someValues",
					},
				},
				Annotated:   true,
				ChannelName: common.ControllerChannel(ExampleChannel, "MySimpleController"),
			},
			&meta.BroadcastController{
				Name:        "MyBroadcastController",
				Package:     "com.example",
				Import:      "com.example.MyBroadcastController",
				Instance:    "MyBroadcastController()",
				Receiver:    meta.Receiver{Kind: meta.ReceiverClass, Path: "MyBroadcastController"},
				Response:    myResponse,
				ChannelName: common.ControllerChannel(ExampleChannel, "MyBroadcastController"),
			},
			&meta.BroadcastController{
				Name:        "Counter",
				Package:     "com.example",
				Import:      "com.example.Counter",
				Instance:    "Counter",
				Receiver:    meta.Receiver{Kind: meta.ReceiverObject, Path: "Counter"},
				Response:    meta.TypeRef{Name: "Int", Raw: "Int"},
				ChannelName: common.ControllerChannel(ExampleChannel, "Counter"),
			},
		},
		Messages: []meta.Message{
			{
				Name:    "MyResponse",
				Package: "com.example",
				Fields: []meta.Field{
					{Name: "x", Type: meta.TypeRef{Name: "String", Nullable: true, Raw: "String?"}},
					{Name: "y", Type: meta.TypeRef{Name: "Int", Raw: "Int"}},
					{Name: "tags", Type: meta.TypeRef{Name: "String", List: true, Raw: "List<String>"}},
					{Name: "value", Type: meta.TypeRef{Name: "SomeValue", Nullable: true, Custom: true, Raw: "SomeValue?"}},
					{Name: "children", Type: meta.TypeRef{Name: "Child", List: true, Custom: true, Raw: "List<Child>"}},
				},
			},
			{
				Name:    "Child",
				Package: "com.example",
				Fields: []meta.Field{
					{Name: "flag", Type: meta.TypeRef{Name: "Boolean", Raw: "Boolean"}},
					{Name: "ratio", Type: meta.TypeRef{Name: "Double", Nullable: true, Raw: "Double?"}},
				},
			},
		},
		Enums: []meta.Enum{
			{
				Name:    "SomeValue",
				Package: "com.example",
				Members: []meta.EnumMember{
					{Name: "BLA", WireValue: "bla"},
					{Name: "DIE", WireValue: "die"},
					{Name: "BLABLA", WireValue: "BLABLA"},
				},
			},
		},
	}
}
