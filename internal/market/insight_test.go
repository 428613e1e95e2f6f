package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"airmarketbackend/internal/llm"
)

type fakeChatClient struct {
	response string
	err      error
}

func (f *fakeChatClient) ChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	choice := llm.Choice{}
	choice.Message.Content = f.response
	return &llm.ChatCompletionResponse{Choices: []llm.Choice{choice}}, nil
}

func sampleRecords() []FlightRecord {
	return []FlightRecord{
		{Origin: "Sydney", Destination: "Melbourne", Airline: "Qantas", Price: 299, DemandScore: 85, IsDomestic: true, Date: day(2)},
		{Origin: "Melbourne", Destination: "Brisbane", Airline: "Virgin Australia", Price: 189, DemandScore: 60, IsDomestic: true, Date: day(3)},
		{Origin: "Sydney", Destination: "Tokyo", Airline: "Qantas", Price: 1450, DemandScore: 72, IsDomestic: false, Date: day(4)},
	}
}

func TestLLMInsightsParsesContractResponse(t *testing.T) {
	fake := &fakeChatClient{response: `{
		"demand_insights": ["Strong weekday demand on trunk routes"],
		"price_insights": ["Domestic fares are stable"],
		"route_insights": ["Sydney-Melbourne dominates volume"],
		"recommendations": ["Book midweek for best fares"],
		"summary": "Healthy market"
	}`}

	generator := LLMInsightGenerator{
		Client:      fake,
		Model:       "gpt-3.5-turbo",
		Temperature: 0.7,
		MaxTokens:   512,
		Fallback:    MockInsightGenerator{},
	}

	bundle := generator.Insights(context.Background(), sampleRecords())
	if len(bundle.DemandInsights) != 1 || bundle.DemandInsights[0] != "Strong weekday demand on trunk routes" {
		t.Errorf("unexpected demand insights %v", bundle.DemandInsights)
	}
	if bundle.Summary != "Healthy market" {
		t.Errorf("unexpected summary %q", bundle.Summary)
	}
	if len(bundle.Recommendations) != 1 {
		t.Errorf("unexpected recommendations %v", bundle.Recommendations)
	}
}

func TestLLMInsightsWrapsNonContractResponse(t *testing.T) {
	fake := &fakeChatClient{response: "The market looks broadly stable this quarter."}

	generator := LLMInsightGenerator{Client: fake, Model: "gpt-3.5-turbo", Fallback: MockInsightGenerator{}}

	bundle := generator.Insights(context.Background(), sampleRecords())
	if len(bundle.DemandInsights) != 1 || bundle.DemandInsights[0] != "The market looks broadly stable this quarter." {
		t.Fatalf("expected raw text wrapped as single insight, got %v", bundle.DemandInsights)
	}
	if bundle.Summary != "AI analysis completed" {
		t.Errorf("unexpected summary %q", bundle.Summary)
	}
	if len(bundle.PriceInsights) != 0 || len(bundle.RouteInsights) != 0 || len(bundle.Recommendations) != 0 {
		t.Errorf("expected empty remaining fields, got %+v", bundle)
	}
}

func TestLLMInsightsFallsBackOnClientError(t *testing.T) {
	records := sampleRecords()
	generator := LLMInsightGenerator{
		Client:   &fakeChatClient{err: errors.New("boom")},
		Model:    "gpt-3.5-turbo",
		Fallback: MockInsightGenerator{},
	}

	bundle := generator.Insights(context.Background(), records)
	want := MockInsightGenerator{}.Insights(context.Background(), records)
	if !reflect.DeepEqual(bundle, want) {
		t.Fatalf("fallback bundle should match mock output\ngot:  %+v\nwant: %+v", bundle, want)
	}
}

func TestLLMInsightsFallsBackOnHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := llm.NewClient("test-key", llm.WithBaseURL(ts.URL))
	records := sampleRecords()

	generator := LLMInsightGenerator{Client: client, Model: "gpt-3.5-turbo", Fallback: MockInsightGenerator{}}
	bundle := generator.Insights(context.Background(), records)

	want := MockInsightGenerator{}.Insights(context.Background(), records)
	if !reflect.DeepEqual(bundle, want) {
		t.Fatalf("HTTP 500 should degrade to the mock bundle\ngot:  %+v\nwant: %+v", bundle, want)
	}
}

func TestLLMInsightsMisconfiguredUsesMock(t *testing.T) {
	generator := LLMInsightGenerator{}
	bundle := generator.Insights(context.Background(), sampleRecords())
	if bundle.Summary != "Market shows healthy demand with price stability across major routes" {
		t.Fatalf("expected mock summary, got %q", bundle.Summary)
	}
}

func TestMockInsightsAreDeterministic(t *testing.T) {
	records := sampleRecords()
	first := MockInsightGenerator{}.Insights(context.Background(), records)
	second := MockInsightGenerator{}.Insights(context.Background(), records)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("mock insights must be a pure function of the input")
	}
	if first.DemandInsights[0] != "Analyzed 3 flights across multiple routes" {
		t.Errorf("unexpected first insight %q", first.DemandInsights[0])
	}
	if first.PriceInsights[0] != "Price range varies from $189 to $1450" {
		t.Errorf("unexpected price insight %q", first.PriceInsights[0])
	}
}

func TestMockInsightsEmptyInput(t *testing.T) {
	bundle := MockInsightGenerator{}.Insights(context.Background(), nil)
	if bundle.Summary != "Insufficient data for analysis" {
		t.Fatalf("unexpected summary %q", bundle.Summary)
	}
	if len(bundle.DemandInsights) != 1 {
		t.Fatalf("expected the single no-data insight, got %v", bundle.DemandInsights)
	}
	if bundle.PriceInsights == nil || bundle.Recommendations == nil {
		t.Fatalf("list fields must be empty, not nil")
	}
}
