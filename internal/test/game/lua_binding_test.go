//go:build scenario

package game

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// Scenario is a scripted playthrough: a named sequence of game steps
// and expectations built by a Lua file.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scripted action or assertion.
type Step struct {
	Kind string
	Args map[string]any
}

func loadScenarioFromFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	registerScenarioType(state)
	registerScenarioConstructor(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{
		{Name: "new", Function: scenarioNew},
	}, 0)
	state.SetGlobal("Scenario")
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "players", Function: scenarioPlayers},
	{Name: "move", Function: scenarioMove},
	{Name: "roll", Function: scenarioRoll},
	{Name: "action", Function: scenarioAction},
	{Name: "end_turn", Function: scenarioEndTurn},
	{Name: "draw", Function: scenarioDraw},
	{Name: "play", Function: scenarioPlay},
	{Name: "try_again", Function: scenarioTryAgain},
	{Name: "resolve", Function: scenarioResolve},
	{Name: "expect", Function: scenarioExpect},
	{Name: "expect_turn", Function: scenarioExpectTurn},
	{Name: "expect_winner", Function: scenarioExpectWinner},
}

func scenarioPlayers(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	names, _ := luaToGo(state, 2).([]any)
	appendStep(scenario, "players", map[string]any{"names": names})
	return 0
}

func scenarioMove(state *lua.State) int {
	scenario := checkScenario(state)
	player := lua.CheckInteger(state, 2)
	destination := lua.CheckString(state, 3)
	appendStep(scenario, "move", map[string]any{"player": player, "destination": destination})
	return 0
}

func scenarioRoll(state *lua.State) int {
	scenario := checkScenario(state)
	player := lua.CheckInteger(state, 2)
	appendStep(scenario, "roll", map[string]any{"player": player})
	return 0
}

func scenarioAction(state *lua.State) int {
	scenario := checkScenario(state)
	player := lua.CheckInteger(state, 2)
	category := lua.CheckString(state, 3)
	appendStep(scenario, "action", map[string]any{"player": player, "category": category})
	return 0
}

func scenarioEndTurn(state *lua.State) int {
	scenario := checkScenario(state)
	player := lua.CheckInteger(state, 2)
	appendStep(scenario, "end_turn", map[string]any{"player": player})
	return 0
}

func scenarioDraw(state *lua.State) int {
	scenario := checkScenario(state)
	player := lua.CheckInteger(state, 2)
	cardType := lua.CheckString(state, 3)
	appendStep(scenario, "draw", map[string]any{"player": player, "card_type": cardType})
	return 0
}

func scenarioPlay(state *lua.State) int {
	scenario := checkScenario(state)
	player := lua.CheckInteger(state, 2)
	cardID := lua.CheckString(state, 3)
	appendStep(scenario, "play", map[string]any{"player": player, "card_id": cardID})
	return 0
}

func scenarioTryAgain(state *lua.State) int {
	scenario := checkScenario(state)
	player := lua.CheckInteger(state, 2)
	appendStep(scenario, "try_again", map[string]any{"player": player})
	return 0
}

func scenarioResolve(state *lua.State) int {
	scenario := checkScenario(state)
	optionID := lua.CheckString(state, 2)
	appendStep(scenario, "resolve", map[string]any{"option": optionID})
	return 0
}

func scenarioExpect(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "expect", tableToMap(state, 2))
	return 0
}

func scenarioExpectTurn(state *lua.State) int {
	scenario := checkScenario(state)
	turn := lua.CheckInteger(state, 2)
	appendStep(scenario, "expect_turn", map[string]any{"turn": turn})
	return 0
}

func scenarioExpectWinner(state *lua.State) int {
	scenario := checkScenario(state)
	player := lua.CheckInteger(state, 2)
	appendStep(scenario, "expect_winner", map[string]any{"player": player})
	return 0
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, args map[string]any) {
	if args == nil {
		args = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: args})
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		if math.Mod(value, 1) == 0 {
			return int(value)
		}
		return value
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToSlice(state, index)
	default:
		return nil
	}
}

// tableToSlice reads a table as a 1..n array, falling back to a map for
// keyed tables.
func tableToSlice(state *lua.State, index int) any {
	index = state.AbsIndex(index)
	length := state.RawLength(index)
	if length == 0 {
		return tableToMap(state, index)
	}
	result := make([]any, 0, length)
	for i := 1; i <= length; i++ {
		state.RawGetInt(index, i)
		result = append(result, luaToGo(state, -1))
		state.Pop(1)
	}
	return result
}
