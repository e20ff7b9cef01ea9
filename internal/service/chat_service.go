package service

import (
	"context"
	"strings"

	"ideabot-be/internal/constant"
	"ideabot-be/internal/dto"
	"ideabot-be/internal/entity"
	"ideabot-be/internal/pkg/logger"
	"ideabot-be/internal/repository/memory"
	"ideabot-be/internal/repository/specification"
	"ideabot-be/internal/repository/unitofwork"
	"ideabot-be/pkg/flow"
	"ideabot-be/pkg/oracle"
	"ideabot-be/pkg/permission"
	"ideabot-be/pkg/prompt"
)

type IChatService interface {
	SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	connectionCache  *memory.ConnectionCache
	oracleClient     *oracle.Client
	knowledgeService IKnowledgeService
	actionService    IActionService
	log              logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	connectionCache *memory.ConnectionCache,
	oracleClient *oracle.Client,
	knowledgeService IKnowledgeService,
	actionService IActionService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		connectionCache:  connectionCache,
		oracleClient:     oracleClient,
		knowledgeService: knowledgeService,
		actionService:    actionService,
		log:              log,
	}
}

// dispatcherFunc adapts a closure to the flow dispatcher contract.
type dispatcherFunc func(ctx context.Context, scratch flow.Scratch) flow.DispatchResult

func (f dispatcherFunc) Dispatch(ctx context.Context, scratch flow.Scratch) flow.DispatchResult {
	return f(ctx, scratch)
}

// SendMessage advances one conversation turn. The session row is the
// single source of truth for mode and flow progress; it is re-read at
// the start of every turn and fully persisted at the end.
func (c *chatService) SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	utterance := strings.TrimSpace(req.Message)

	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.BySessionKey{SessionKey: req.SessionKey})
	if err != nil {
		return nil, err
	}
	isNew := session == nil
	if isNew {
		session = entity.NewChatSession(req.SessionKey, req.ConnectionID)
	}
	if req.ConnectionID != "" {
		session.ConnectionID = req.ConnectionID
	}

	conn, err := c.loadConnection(ctx, uow, session.ConnectionID)
	if err != nil {
		return nil, err
	}
	perms := permission.Document{}
	if conn != nil {
		perms = conn.Permissions
	}

	// A refused trigger gets the fixed notice and nothing else: no
	// session row is written and no history is recorded.
	if session.State.Mode == flow.ModeFreeChat &&
		hasTrigger(strings.ToLower(utterance)) &&
		!perms.AllowsMode(flow.ModeGuidedFlow) {
		return &dto.SendMessageResponse{
			Messages: []dto.ReplyMessage{
				{Role: constant.RoleAssistant, Text: constant.GuidedFlowDeniedNotice},
			},
		}, nil
	}

	result := c.advance(ctx, session, conn, perms, utterance, req.PageURL)

	session.State = result.State
	session.AppendTurn(constant.RoleUser, utterance)
	session.AppendTurn(constant.RoleAssistant, result.Reply)

	if isNew {
		err = uow.ChatSessionRepository().Create(ctx, session)
	} else {
		err = uow.ChatSessionRepository().Update(ctx, session)
	}
	if err != nil {
		return nil, err
	}

	return &dto.SendMessageResponse{
		Messages: []dto.ReplyMessage{
			{Role: constant.RoleAssistant, Text: result.Reply},
		},
		Suggestions: result.Suggestions,
		AiMetadata:  result.Metadata,
	}, nil
}

// advance routes the utterance through exit keywords, flow triggers and
// the two modes, returning the reply plus the next session state.
func (c *chatService) advance(
	ctx context.Context,
	session *entity.ChatSession,
	conn *entity.Connection,
	perms permission.Document,
	utterance, pageURL string,
) flow.Result {
	st := session.State
	lower := strings.ToLower(utterance)

	// Exit keywords win over everything while a flow is active.
	if st.Mode == flow.ModeGuidedFlow && isExitKeyword(lower) {
		st.Reset()
		return flow.Result{Reply: constant.CancelledNotice, State: st}
	}

	if st.Mode == flow.ModeFreeChat && hasTrigger(lower) {
		st.Mode = flow.ModeGuidedFlow
		st.Step = flow.StepNone
		st.Scratch = flow.Scratch{}
		return c.flowEngine(session, conn).Advance(ctx, st, utterance)
	}

	if st.Mode == flow.ModeGuidedFlow {
		return c.flowEngine(session, conn).Advance(ctx, st, utterance)
	}

	return c.freeChat(ctx, session, conn, perms, utterance, pageURL, st)
}

func (c *chatService) flowEngine(session *entity.ChatSession, conn *entity.Connection) *flow.Engine {
	dispatcher := dispatcherFunc(func(ctx context.Context, scratch flow.Scratch) flow.DispatchResult {
		return c.actionService.Execute(ctx, conn, session.SessionKey, scratch)
	})
	return flow.NewEngine(c.oracleClient, dispatcher)
}

func (c *chatService) freeChat(
	ctx context.Context,
	session *entity.ChatSession,
	conn *entity.Connection,
	perms permission.Document,
	utterance, pageURL string,
	st flow.State,
) flow.Result {
	if !perms.AIEnabled() {
		return flow.Result{Reply: constant.AIDisabledNotice, State: st}
	}

	knowledgeContext, err := c.knowledgeService.RetrieveContext(ctx, session.ConnectionID, utterance)
	if err != nil {
		// Retrieval is an enhancement; the turn continues without it.
		c.log.Warn("chat_service", "knowledge retrieval failed", map[string]interface{}{
			"connection_id": session.ConnectionID,
			"error":         err.Error(),
		})
		knowledgeContext = ""
	}

	profile := prompt.Profile{}
	var overrides []prompt.Override
	if conn != nil {
		profile = conn.BehaviorProfile
		overrides = conn.BehaviorOverrides
	}
	systemPrompt := prompt.Assemble(profile, overrides, pageURL, knowledgeContext)

	history := make([]oracle.Turn, 0, constant.HistoryTailSize)
	for _, t := range session.HistoryTail(constant.HistoryTailSize) {
		history = append(history, oracle.Turn{Role: t.Role, Text: t.Text})
	}

	reply := c.oracleClient.FreeChat(ctx, systemPrompt, history, utterance)
	return flow.Result{Reply: reply, State: st}
}

func (c *chatService) loadConnection(ctx context.Context, uow unitofwork.UnitOfWork, connectionID string) (*entity.Connection, error) {
	if connectionID == "" {
		return nil, nil
	}
	if cached, found := c.connectionCache.Get(connectionID); found {
		return cached, nil
	}

	conn, err := uow.ConnectionRepository().FindOne(ctx, specification.ByConnectionID{ConnectionID: connectionID})
	if err != nil {
		return nil, err
	}
	if conn != nil {
		c.connectionCache.Save(conn)
	}
	return conn, nil
}

func isExitKeyword(lower string) bool {
	for _, kw := range constant.GuidedFlowExitKeywords {
		if lower == kw {
			return true
		}
	}
	return false
}

func hasTrigger(lower string) bool {
	for _, trigger := range constant.GuidedFlowTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}
