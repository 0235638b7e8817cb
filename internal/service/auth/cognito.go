package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"

	"github.com/propertypilot/backend/internal/config"
)

// ErrInvalidCredentials indicates the user pool rejected the login.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// cognitoAPI is the subset of the Cognito IDP client we call.
type cognitoAPI interface {
	AdminInitiateAuth(ctx context.Context, params *cognitoidentityprovider.AdminInitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminInitiateAuthOutput, error)
	AdminGetUser(ctx context.Context, params *cognitoidentityprovider.AdminGetUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminGetUserOutput, error)
}

// Tokens is the credential bundle returned by a successful login.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int32  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Client wraps the Cognito user pool operations the service needs.
type Client struct {
	api        cognitoAPI
	userPoolID string
	clientID   string
}

// NewClient builds a Cognito client from the default AWS credential chain.
func NewClient(ctx context.Context, cfg config.AuthConfig) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Client{
		api:        cognitoidentityprovider.NewFromConfig(awsCfg),
		userPoolID: cfg.UserPoolID,
		clientID:   cfg.ClientID,
	}, nil
}

// NewClientWithAPI wires a caller-provided API implementation. Used in tests.
func NewClientWithAPI(api cognitoAPI, userPoolID, clientID string) *Client {
	return &Client{api: api, userPoolID: userPoolID, clientID: clientID}
}

// Login authenticates a username/password pair against the user pool.
func (c *Client) Login(ctx context.Context, username, password string) (*Tokens, error) {
	if c.clientID == "" {
		return nil, errors.New("auth: client ID not configured")
	}

	out, err := c.api.AdminInitiateAuth(ctx, &cognitoidentityprovider.AdminInitiateAuthInput{
		UserPoolId: aws.String(c.userPoolID),
		ClientId:   aws.String(c.clientID),
		AuthFlow:   types.AuthFlowTypeAdminNoSrpAuth,
		AuthParameters: map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	})
	if err != nil {
		log.Printf("[auth] login failed for user=%s: %v", username, err)
		return nil, ErrInvalidCredentials
	}

	result := out.AuthenticationResult
	if result == nil || result.AccessToken == nil {
		return nil, ErrInvalidCredentials
	}

	tokens := &Tokens{
		AccessToken: aws.ToString(result.AccessToken),
		IDToken:     aws.ToString(result.IdToken),
		ExpiresIn:   result.ExpiresIn,
		TokenType:   "Bearer",
	}
	if result.RefreshToken != nil {
		tokens.RefreshToken = aws.ToString(result.RefreshToken)
	}
	if result.TokenType != nil {
		tokens.TokenType = aws.ToString(result.TokenType)
	}
	return tokens, nil
}

// UserPreferences loads the investment-related attributes stored on the
// user record. Missing attributes are simply absent from the result.
func (c *Client) UserPreferences(ctx context.Context, userID string) (map[string]string, error) {
	if c.userPoolID == "" {
		return map[string]string{}, nil
	}

	out, err := c.api.AdminGetUser(ctx, &cognitoidentityprovider.AdminGetUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(userID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	prefs := make(map[string]string)
	for _, attr := range out.UserAttributes {
		name := aws.ToString(attr.Name)
		value := aws.ToString(attr.Value)
		switch name {
		case "custom:investment_preferences":
			prefs["investment_preferences"] = value
		case "custom:risk_tolerance":
			prefs["risk_tolerance"] = value
		case "custom:investment_timeline":
			prefs["investment_timeline"] = value
		case "email", "given_name", "family_name":
			prefs[name] = value
		}
	}
	return prefs, nil
}
