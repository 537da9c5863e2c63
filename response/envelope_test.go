package response_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/greendam/greenframe/response"
)

type EnvelopeTestSuite struct {
	suite.Suite
}

func TestEnvelopeSuite(t *testing.T) {
	suite.Run(t, &EnvelopeTestSuite{})
}

type user struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (s *EnvelopeTestSuite) TestConstructors() {
	u := user{ID: 7, Name: "ada"}

	testCases := []struct {
		name        string
		env         response.Envelope[user]
		wantCode    int
		wantMessage string
		wantData    bool
	}{
		{"ok", response.Ok[user](), 200, "operation.successful", false},
		{"ok with data", response.OkData(u), 200, "operation.successful", true},
		{"ok with message", response.OkMsg[user]("done"), 200, "done", false},
		{"ok with message and data", response.OkMsgData("done", u), 200, "done", true},
		{"fail", response.Fail[user](), 500, "operation.failed", false},
		{"fail with message", response.FailMsg[user]("nope"), 500, "nope", false},
		{"fail with data", response.FailData(u), 500, "operation.failed", true},
		{"fail with message and data", response.FailMsgData("nope", u), 500, "nope", true},
		{"fail with code", response.FailCode[user](404, "user.missing"), 404, "user.missing", false},
		{"fail with code and data", response.FailCodeData(409, "conflict", u), 409, "conflict", true},
		{"warn", response.Warn[user]("careful"), 601, "careful", false},
		{"warn with data", response.WarnData("careful", u), 601, "careful", true},
		{"rest result", response.RestResult(&u, 201, "created"), 201, "created", true},
		{"rest result without data", response.RestResult[user](nil, 204, ""), 204, "", false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.wantCode, tc.env.Code())
			s.Equal(tc.wantMessage, tc.env.Message())

			data, ok := tc.env.Data()
			s.Equal(tc.wantData, ok)
			if tc.wantData {
				s.Equal(u, data)
			} else {
				s.Zero(data)
			}
		})
	}
}

func (s *EnvelopeTestSuite) TestSuccessPredicates() {
	testCases := []struct {
		name        string
		env         response.Envelope[any]
		wantSuccess bool
	}{
		{"ok", response.Ok[any](), true},
		{"ok message", response.OkMsg[any]("x"), true},
		{"fail", response.Fail[any](), false},
		{"fail code", response.FailCode[any](400, "bad"), false},
		{"warn is not success", response.Warn[any]("w"), false},
		{"custom code", response.RestResult[any](nil, 202, ""), false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.wantSuccess, response.IsSuccess(tc.env))
			s.Equal(!tc.wantSuccess, response.IsError(tc.env))
		})
	}
}

func (s *EnvelopeTestSuite) TestJSONShape() {
	b, err := json.Marshal(response.Ok[any]())
	s.Require().NoError(err)
	s.JSONEq(`{"code":200,"message":"operation.successful","data":null}`, string(b))

	b, err = json.Marshal(response.FailCodeData(404, "user.missing", user{ID: 1, Name: "x"}))
	s.Require().NoError(err)
	s.JSONEq(`{"code":404,"message":"user.missing","data":{"id":1,"name":"x"}}`, string(b))
}

func (s *EnvelopeTestSuite) TestJSONRoundTrip() {
	in := response.WarnData("careful", user{ID: 3, Name: "lin"})

	b, err := json.Marshal(in)
	s.Require().NoError(err)

	var out response.Envelope[user]
	s.Require().NoError(json.Unmarshal(b, &out))

	s.Equal(in.Code(), out.Code())
	s.Equal(in.Message(), out.Message())
	data, ok := out.Data()
	s.True(ok)
	s.Equal(user{ID: 3, Name: "lin"}, data)

	var empty response.Envelope[user]
	s.Require().NoError(json.Unmarshal([]byte(`{"code":500,"message":"operation.failed","data":null}`), &empty))
	_, ok = empty.Data()
	s.False(ok)
	s.True(response.IsError(empty))
}

func (s *EnvelopeTestSuite) TestAnyKeepsFields() {
	e := response.OkMsgData("hi", 5).Any()
	s.Equal(200, e.Code())
	s.Equal("hi", e.Message())
	data, ok := e.Data()
	s.True(ok)
	s.Equal(5, data)

	_, ok = response.Fail[int]().Any().Data()
	s.False(ok)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", response.Outcome(response.StatusSuccess))
	assert.Equal(t, "warn", response.Outcome(response.StatusWarn))
	assert.Equal(t, "fail", response.Outcome(response.StatusError))
	assert.Equal(t, "fail", response.Outcome(response.StatusCreated))
}
